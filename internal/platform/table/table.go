// Package table renders a record collection as an HTML table from column
// descriptors. It never fetches data.
package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// Column describes one cell per row. Render, when set, wins over Value.
type Column[T any] struct {
	Key    string
	Label  string
	Value  func(T) any
	Render func(T) template.HTML
}

// Data is what the table renders. Invalid holds the raw payload when the
// source was not a collection; Rows is then empty.
type Data[T any] struct {
	Rows    []T
	Invalid json.RawMessage
}

// Decode builds Data from raw JSON. It never fails: anything that is not a
// JSON array of T becomes Invalid.
func Decode[T any](raw json.RawMessage) Data[T] {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Data[T]{Rows: []T{}, Invalid: json.RawMessage("null")}
	}
	if trimmed[0] != '[' {
		return Data[T]{Rows: []T{}, Invalid: raw}
	}
	rows := make([]T, 0)
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return Data[T]{Rows: []T{}, Invalid: raw}
	}
	return Data[T]{Rows: rows}
}

type Table[T any] struct {
	Columns   []Column[T]
	RowID     func(T) string
	EditURL   func(T) string
	DeleteURL func(T) string
}

type cell struct {
	Key     string
	Content template.HTML
}

type row struct {
	ID        string
	Cells     []cell
	EditURL   string
	DeleteURL string
}

var (
	tableTmpl = template.Must(template.New("table").Parse(`<div class="table-wrap">
<table class="data-table">
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}<th class="actions">Acciones</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr data-id="{{.ID}}">{{range .Cells}}<td data-key="{{.Key}}">{{.Content}}</td>{{end}}<td class="actions">
{{- if .EditURL}}<a class="action-edit" href="{{.EditURL}}">Editar</a>{{end}}
{{- if .DeleteURL}}<a class="action-delete" href="{{.DeleteURL}}">Eliminar</a>{{end -}}
</td></tr>
{{- end}}
</tbody>
</table>
</div>`))

	diagnosticTmpl = template.Must(template.New("diagnostic").Parse(`<div class="table-diagnostic" role="alert">
<h3>Error de formato de datos</h3>
<p>Los datos recibidos no son un array válido.</p>
<pre>{{.}}</pre>
</div>`))
)

const emptyHTML = `<div class="table-empty"><p>No hay datos para mostrar</p></div>`

// Render returns the diagnostic panel for invalid data, the empty-state
// placeholder for an empty collection, and the table otherwise.
func (t *Table[T]) Render(d Data[T]) template.HTML {
	if d.Invalid != nil {
		return renderDiagnostic(d.Invalid)
	}
	if len(d.Rows) == 0 {
		return template.HTML(emptyHTML)
	}

	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Label
	}

	rows := make([]row, 0, len(d.Rows))
	for _, rec := range d.Rows {
		r := row{Cells: make([]cell, len(t.Columns))}
		if t.RowID != nil {
			r.ID = t.RowID(rec)
		}
		if t.EditURL != nil {
			r.EditURL = t.EditURL(rec)
		}
		if t.DeleteURL != nil {
			r.DeleteURL = t.DeleteURL(rec)
		}
		for i, col := range t.Columns {
			r.Cells[i] = cell{Key: col.Key, Content: renderCell(col, rec)}
		}
		rows = append(rows, r)
	}

	var buf bytes.Buffer
	if err := tableTmpl.Execute(&buf, struct {
		Headers []string
		Rows    []row
	}{headers, rows}); err != nil {
		return renderDiagnostic(json.RawMessage(fmt.Sprintf("%q", err.Error())))
	}
	return template.HTML(buf.String())
}

func renderCell[T any](col Column[T], rec T) template.HTML {
	if col.Render != nil {
		return col.Render(rec)
	}
	return template.HTML(template.HTMLEscapeString(Stringify(valueOf(col, rec))))
}

func valueOf[T any](col Column[T], rec T) any {
	if col.Value == nil {
		return nil
	}
	return col.Value(rec)
}

// Stringify renders a raw cell value; nil and empty strings become "-".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case *string:
		if x == nil || *x == "" {
			return "-"
		}
		return *x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func renderDiagnostic(raw json.RawMessage) template.HTML {
	pretty := string(raw)
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err == nil {
		pretty = buf.String()
	}
	var out bytes.Buffer
	if err := diagnosticTmpl.Execute(&out, pretty); err != nil {
		return template.HTML(`<div class="table-diagnostic" role="alert"><h3>Error de formato de datos</h3></div>`)
	}
	return template.HTML(out.String())
}
