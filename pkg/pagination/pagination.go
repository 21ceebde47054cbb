package pagination

// Info is the optional pagination block the backend attaches to list envelopes.
type Info struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasNext returns true if there are more pages after the current one.
func (i *Info) HasNext() bool {
	if i == nil {
		return false
	}
	return i.Page < i.TotalPages
}

// HasPrevious returns true if there are pages before the current one.
func (i *Info) HasPrevious() bool {
	if i == nil {
		return false
	}
	return i.Page > 1
}

// TotalOr returns the server-reported total, or fallback when the envelope
// carried no pagination block.
func (i *Info) TotalOr(fallback int) int {
	if i == nil || i.Total <= 0 {
		return fallback
	}
	return i.Total
}
