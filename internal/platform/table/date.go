package table

import "time"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
}

// FormatDate renders an API date as day/month/year without padding
// (15/3/2024). Values that do not parse are returned as they are; empty
// values become "-".
func FormatDate(s string) string {
	if s == "" {
		return "-"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2/1/2006")
		}
	}
	return s
}
