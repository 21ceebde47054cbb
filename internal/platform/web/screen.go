package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ReyXerxezz/genosentinel/internal/platform/apiclient"
	"github.com/ReyXerxezz/genosentinel/internal/platform/crud"
	"github.com/ReyXerxezz/genosentinel/internal/platform/form"
	"github.com/ReyXerxezz/genosentinel/internal/platform/stats"
	"github.com/ReyXerxezz/genosentinel/internal/platform/table"
)

// StatsSource feeds the app header counters.
type StatsSource interface {
	Collect(ctx context.Context) []stats.Count
}

// Screen wires one crud.Module to HTTP. T is the record, D the typed input
// and F the form's field type.
type Screen[T, D any, F ~string] struct {
	// Prefix is the path of the group the screen is mounted on and Path the
	// screen's own path below it.
	Prefix      string
	Path        string
	Title       string
	Heading     string
	TotalLabel  string
	NewLabel    string
	CreateTitle string
	EditTitle   string

	// NewModule returns a fresh module for each request.
	NewModule func(c echo.Context) *crud.Module[T, D]
	Table     *table.Table[T]
	// NewForm builds the form seeded from rec, or blank when rec is nil.
	NewForm func(rec *T) *form.Form[F]
	Fields  func(f *form.Form[F]) []FieldView
	// Validate returns field errors; an empty map means the values are valid.
	Validate func(values map[F]string) map[F]string
	Input    func(values map[F]string) D

	// Scope lists query parameters that narrow the collection, such as
	// ?patient. They are carried through every link, form and redirect.
	Scope []string

	Nav   []NavItem
	Stats StatsSource
}

// BasePath is the absolute path of the list page.
func (s *Screen[T, D, F]) BasePath() string {
	return s.Prefix + s.Path
}

func (s *Screen[T, D, F]) scope(c echo.Context) url.Values {
	q := url.Values{}
	for _, k := range s.Scope {
		if v := c.QueryParam(k); v != "" {
			q.Set(k, v)
		}
	}
	return q
}

// listPath is BasePath plus the scope of the current request.
func (s *Screen[T, D, F]) listPath(c echo.Context) string {
	return withQuery(s.BasePath(), s.scope(c))
}

// withQuery appends q to u, which may already carry a query.
func withQuery(u string, q url.Values) string {
	if len(q) == 0 {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + q.Encode()
	}
	return u + "?" + q.Encode()
}

// RegisterRoutes mounts the list, save and delete endpoints on g, the group
// at Prefix.
func (s *Screen[T, D, F]) RegisterRoutes(g *echo.Group) {
	g.GET(s.Path, s.List)
	g.POST(s.Path, s.Save)
	g.POST(s.Path+"/:id/delete", s.Delete)
}

// List handles GET <base>. ?modal=new and ?modal=edit&id=X open the dialog,
// ?confirm_delete=X asks for delete confirmation.
func (s *Screen[T, D, F]) List(c echo.Context) error {
	ctx := c.Request().Context()
	m := s.NewModule(c)
	if err := m.Load(ctx); err != nil && apiclient.IsUnauthorized(err) {
		return err
	}

	var f *form.Form[F]
	switch c.QueryParam("modal") {
	case "new":
		m.Create()
		f = s.NewForm(nil)
	case "edit":
		if rec, ok := m.Find(c.QueryParam("id")); ok {
			m.Edit(*rec)
			f = s.NewForm(rec)
		}
	}

	var confirm *ConfirmView
	if id := c.QueryParam("confirm_delete"); id != "" {
		confirm = &ConfirmView{
			Prompt:    m.Messages.ConfirmDelete,
			Action:    withQuery(s.BasePath()+"/"+url.PathEscape(id)+"/delete", s.scope(c)),
			CancelURL: s.listPath(c),
		}
	}

	return c.Render(http.StatusOK, "crud", s.page(c, m, f, confirm))
}

// Save handles POST <base>. A non-empty "id" field edits that record,
// otherwise a new one is created.
func (s *Screen[T, D, F]) Save(c echo.Context) error {
	ctx := c.Request().Context()
	m := s.NewModule(c)
	if err := m.Load(ctx); err != nil && apiclient.IsUnauthorized(err) {
		return err
	}

	vals, err := c.FormParams()
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Formulario inválido")
	}

	var rec *T
	if id := vals.Get("id"); id != "" {
		found, ok := m.Find(id)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "Registro no encontrado")
		}
		rec = found
		m.Edit(*rec)
	} else {
		m.Create()
	}

	f := s.NewForm(rec)
	f.Bind(vals)

	submit := f.HandleSubmit(func(ctx context.Context, values map[F]string) error {
		if errs := s.Validate(values); len(errs) > 0 {
			f.SetErrors(errs)
			return nil
		}
		return m.Submit(ctx, s.Input(values))
	})
	saveErr := submit(ctx)
	if apiclient.IsUnauthorized(saveErr) {
		return saveErr
	}
	// Only the backend's own message is shown in the dialog.
	var apiErr *apiclient.APIError
	if saveErr != nil && !errors.As(saveErr, &apiErr) {
		f.SetSubmitError(m.Alert())
	}

	status := http.StatusOK
	if !m.Modal.IsOpen() {
		f = nil
	} else if saveErr == nil {
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, "crud", s.page(c, m, f, nil))
}

// Delete handles POST <base>/:id/delete. Without confirm=yes in the form no
// backend call is made.
func (s *Screen[T, D, F]) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	m := s.NewModule(c)
	confirm := FormConfirmer(c)
	if !confirm.Confirm(m.Messages.ConfirmDelete) {
		return c.Redirect(http.StatusSeeOther, s.listPath(c))
	}

	deleted, err := m.Delete(ctx, c.Param("id"), confirm)
	if apiclient.IsUnauthorized(err) {
		return err
	}
	if deleted {
		return c.Redirect(http.StatusSeeOther, s.listPath(c))
	}

	// The delete failed: show the list under the alert.
	if err := m.Load(ctx); err != nil && apiclient.IsUnauthorized(err) {
		return err
	}
	return c.Render(http.StatusOK, "crud", s.page(c, m, nil, nil))
}

func (s *Screen[T, D, F]) page(c echo.Context, m *crud.Module[T, D], f *form.Form[F], confirm *ConfirmView) CRUDPage {
	ctx := c.Request().Context()
	scope := s.scope(c)
	p := CRUDPage{
		Title:      s.Title,
		Heading:    s.Heading,
		TotalLabel: s.TotalLabel,
		Total:      m.Total(),
		ListURL:    s.listPath(c),
		NewURL:     withQuery(s.BasePath()+"?modal=new", scope),
		NewLabel:   s.NewLabel,
		Failed:     m.Phase() == crud.PhaseFailed,
		LoadError:  m.LoadError(),
		Alert:      m.Alert(),
		Confirm:    confirm,
		Nav:        activeNav(s.Nav, s.BasePath()),
	}
	if !p.Failed {
		p.Table = s.scopedTable(scope).Render(m.Data())
	}
	if s.Stats != nil {
		p.Stats = s.Stats.Collect(ctx)
	}

	if f != nil && m.Modal.IsOpen() {
		mv := &ModalView{
			Title:       s.CreateTitle,
			Action:      p.ListURL,
			Fields:      s.Fields(f),
			SubmitError: f.SubmitError(),
			SubmitLabel: "Guardar",
			CancelURL:   p.ListURL,
		}
		if m.Modal.Editing() {
			mv.Title = s.EditTitle
			mv.SubmitLabel = "Actualizar"
			if s.Table.RowID != nil {
				mv.ID = s.Table.RowID(*m.Modal.Data())
			}
		}
		p.Modal = mv
	}
	return p
}

// scopedTable returns the table with its row links carrying scope.
func (s *Screen[T, D, F]) scopedTable(scope url.Values) *table.Table[T] {
	if len(scope) == 0 {
		return s.Table
	}
	t := *s.Table
	if edit := s.Table.EditURL; edit != nil {
		t.EditURL = func(rec T) string { return withQuery(edit(rec), scope) }
	}
	if del := s.Table.DeleteURL; del != nil {
		t.DeleteURL = func(rec T) string { return withQuery(del(rec), scope) }
	}
	return &t
}

func activeNav(items []NavItem, path string) []NavItem {
	out := make([]NavItem, len(items))
	for i, it := range items {
		it.Active = it.Href == path
		out[i] = it
	}
	return out
}

// FormConfirmer confirms when the submitted form carries confirm=yes.
func FormConfirmer(c echo.Context) crud.Confirmer {
	return crud.ConfirmFunc(func(string) bool {
		return c.FormValue("confirm") == "yes"
	})
}
