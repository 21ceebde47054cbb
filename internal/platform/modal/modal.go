package modal

// Modal is an open/closed flag with an optional payload, the record being
// edited. The payload is nil whenever the modal is closed.
type Modal[T any] struct {
	open bool
	data *T
}

// Open opens the modal. A non-nil data replaces the payload.
func (m *Modal[T]) Open(data *T) {
	if data != nil {
		m.data = data
	}
	m.open = true
}

func (m *Modal[T]) Close() {
	m.open = false
	m.data = nil
}

func (m *Modal[T]) Toggle() {
	if m.open {
		m.Close()
		return
	}
	m.open = true
}

func (m *Modal[T]) IsOpen() bool {
	return m.open
}

// Data returns the payload, or nil when creating.
func (m *Modal[T]) Data() *T {
	return m.data
}

// Editing reports whether the modal carries a record to edit.
func (m *Modal[T]) Editing() bool {
	return m.open && m.data != nil
}
