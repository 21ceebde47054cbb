// Package crud orchestrates the list/create/edit/delete screen of one
// resource: fetch the collection, open the modal for create or edit, submit
// and refetch, confirm and delete.
package crud

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
	"github.com/ReyXerxezz/genosentinel/internal/platform/modal"
	"github.com/ReyXerxezz/genosentinel/internal/platform/table"
	"github.com/ReyXerxezz/genosentinel/pkg/pagination"
)

// Resource is the remote collection a module manages. D is the form input.
type Resource[T, D any] interface {
	List(ctx context.Context) (*apiclient.List[T], error)
	Create(ctx context.Context, in D) (*T, error)
	Update(ctx context.Context, id string, in D) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Messages are the user-facing strings of one module.
type Messages struct {
	LoadFailed    string
	SaveFailed    string
	DeleteFailed  string
	ConfirmDelete string
}

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

type Module[T, D any] struct {
	Name     string
	Messages Messages
	Modal    modal.Modal[T]

	res    Resource[T, D]
	id     func(T) string
	logger zerolog.Logger

	phase      Phase
	items      []T
	pagination *pagination.Info
	malformed  json.RawMessage
	loadErr    error
	alert      string
}

// New creates a module in PhaseLoading with an empty list.
func New[T, D any](name string, res Resource[T, D], id func(T) string, msgs Messages, logger zerolog.Logger) *Module[T, D] {
	return &Module[T, D]{
		Name:     name,
		Messages: msgs,
		res:      res,
		id:       id,
		logger:   logger.With().Str("module", name).Logger(),
		items:    []T{},
	}
}

// Load fetches the full collection. A contract violation keeps the module
// usable: the list is empty and the raw payload is kept for the table's
// diagnostic panel. Any other failure moves the module to PhaseFailed.
func (m *Module[T, D]) Load(ctx context.Context) error {
	m.phase = PhaseLoading
	m.loadErr = nil
	m.malformed = nil

	list, err := m.res.List(ctx)
	if err != nil {
		m.items = []T{}
		m.pagination = nil
		if ce, ok := apiclient.AsContractError(err); ok {
			m.logger.Error().Err(err).Msg("malformed list response")
			m.malformed = json.RawMessage(ce.Raw)
			if len(m.malformed) == 0 {
				m.malformed = json.RawMessage("null")
			}
			m.phase = PhaseReady
			return nil
		}
		m.logger.Error().Err(err).Msg("fetch failed")
		m.loadErr = err
		m.phase = PhaseFailed
		return err
	}

	m.items = list.Items
	if m.items == nil {
		m.items = []T{}
	}
	m.pagination = list.Pagination
	m.phase = PhaseReady
	return nil
}

func (m *Module[T, D]) Phase() Phase {
	return m.phase
}

// LoadError returns the user-facing message of the last failed load.
func (m *Module[T, D]) LoadError() string {
	if m.loadErr == nil {
		return ""
	}
	var apiErr *apiclient.APIError
	if errors.As(m.loadErr, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if m.Messages.LoadFailed != "" {
		return m.Messages.LoadFailed
	}
	return m.loadErr.Error()
}

// Items returns the current list; never nil.
func (m *Module[T, D]) Items() []T {
	return m.items
}

// Total is the server-reported total when available, else the list length.
func (m *Module[T, D]) Total() int {
	return m.pagination.TotalOr(len(m.items))
}

// Data returns the list in the shape the table renders.
func (m *Module[T, D]) Data() table.Data[T] {
	return table.Data[T]{Rows: m.items, Invalid: m.malformed}
}

// Find returns the loaded record with the given id.
func (m *Module[T, D]) Find(id string) (*T, bool) {
	for i := range m.items {
		if m.id(m.items[i]) == id {
			rec := m.items[i]
			return &rec, true
		}
	}
	return nil, false
}

// Create opens the modal without a payload.
func (m *Module[T, D]) Create() {
	m.Modal.Open(nil)
}

// Edit opens the modal on row.
func (m *Module[T, D]) Edit(row T) {
	m.Modal.Open(&row)
}

// Alert returns the blocking alert raised by the last failed mutation.
func (m *Module[T, D]) Alert() string {
	return m.alert
}

func (m *Module[T, D]) DismissAlert() {
	m.alert = ""
}

// Submit updates the modal's payload, or creates a record when the modal has
// none, then closes the modal and refetches the collection. A failure is
// logged, raised as the alert and leaves the list and modal as they were.
func (m *Module[T, D]) Submit(ctx context.Context, in D) error {
	var err error
	if payload := m.Modal.Data(); payload != nil {
		_, err = m.res.Update(ctx, m.id(*payload), in)
	} else {
		_, err = m.res.Create(ctx, in)
	}
	if err != nil {
		m.logger.Error().Err(err).Bool("editing", m.Modal.Data() != nil).Msg("save failed")
		m.alert = m.Messages.SaveFailed
		return err
	}

	m.Modal.Close()
	return m.Load(ctx)
}

// Delete asks c for confirmation and, when given, deletes id and refetches.
// It reports whether the delete call was issued successfully.
func (m *Module[T, D]) Delete(ctx context.Context, id string, c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(m.Messages.ConfirmDelete) {
		return false, nil
	}
	if err := m.res.Delete(ctx, id); err != nil {
		m.logger.Error().Err(err).Str("id", id).Msg("delete failed")
		m.alert = m.Messages.DeleteFailed
		return false, err
	}
	return true, m.Load(ctx)
}
