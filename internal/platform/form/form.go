// Package form holds controlled-form state: values and field errors keyed by
// a closed field type declared per form, plus a whole-form submit error.
package form

import (
	"context"
	"net/url"
)

// SubmitFunc receives a snapshot of the values.
type SubmitFunc[F ~string] func(ctx context.Context, values map[F]string) error

type Form[F ~string] struct {
	initial   map[F]string
	values    map[F]string
	errors    map[F]string
	submitErr string
}

// New creates a form whose field set is the key set of initial.
func New[F ~string](initial map[F]string) *Form[F] {
	f := &Form[F]{
		initial: copyMap(initial),
		errors:  make(map[F]string),
	}
	f.values = copyMap(initial)
	return f
}

func copyMap[F ~string](m map[F]string) map[F]string {
	out := make(map[F]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *Form[F]) has(field F) bool {
	_, ok := f.initial[field]
	return ok
}

// Values returns a copy of the current values.
func (f *Form[F]) Values() map[F]string {
	return copyMap(f.values)
}

func (f *Form[F]) Value(field F) string {
	return f.values[field]
}

// Errors returns a copy of the field errors.
func (f *Form[F]) Errors() map[F]string {
	return copyMap(f.errors)
}

func (f *Form[F]) Error(field F) string {
	return f.errors[field]
}

func (f *Form[F]) SubmitError() string {
	return f.submitErr
}

func (f *Form[F]) HasErrors() bool {
	return len(f.errors) > 0 || f.submitErr != ""
}

// HandleChange updates the named field and clears that field's error only.
// Names outside the form's field set are ignored.
func (f *Form[F]) HandleChange(name, value string) {
	field := F(name)
	if !f.has(field) {
		return
	}
	f.values[field] = value
	delete(f.errors, field)
}

// Bind applies every known field present in vals through HandleChange.
func (f *Form[F]) Bind(vals url.Values) {
	for field := range f.initial {
		if _, ok := vals[string(field)]; ok {
			f.HandleChange(string(field), vals.Get(string(field)))
		}
	}
}

// HandleSubmit returns a handler that clears all errors, calls onSubmit with
// the current values and stores a failure's message in the submit slot. The
// handler returns the failure as well.
func (f *Form[F]) HandleSubmit(onSubmit SubmitFunc[F]) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		f.errors = make(map[F]string)
		f.submitErr = ""
		if err := onSubmit(ctx, f.Values()); err != nil {
			f.submitErr = err.Error()
			return err
		}
		return nil
	}
}

// Reset restores the initial values and clears every error.
func (f *Form[F]) Reset() {
	f.values = copyMap(f.initial)
	f.errors = make(map[F]string)
	f.submitErr = ""
}

func (f *Form[F]) SetFieldValue(field F, value string) {
	if !f.has(field) {
		return
	}
	f.values[field] = value
}

// SetValues overwrites the values of the known fields in values.
func (f *Form[F]) SetValues(values map[F]string) {
	for k, v := range values {
		f.SetFieldValue(k, v)
	}
}

// SetErrors replaces the field errors. Keys outside the field set and empty
// messages are dropped.
func (f *Form[F]) SetErrors(errs map[F]string) {
	f.errors = make(map[F]string, len(errs))
	for k, v := range errs {
		if f.has(k) && v != "" {
			f.errors[k] = v
		}
	}
}

func (f *Form[F]) SetSubmitError(msg string) {
	f.submitErr = msg
}

// DateInput trims an API date or timestamp to the YYYY-MM-DD form a date
// input expects.
func DateInput(s string) string {
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}
