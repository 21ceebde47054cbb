package web

import (
	"html/template"

	"github.com/ReyXerxezz/genosentinel/internal/platform/stats"
)

// Option is one entry of a select field.
type Option struct {
	Value string
	Label string
}

// FieldView is one rendered form control.
type FieldView struct {
	Name        string
	Label       string
	Type        string // text, email, password, date, number, select, textarea
	Value       string
	Options     []Option
	Error       string
	Required    bool
	Placeholder string
	Help        string
}

// ModalView is the create/edit dialog of a CRUD page.
type ModalView struct {
	Title       string
	Action      string
	ID          string
	Fields      []FieldView
	SubmitError string
	SubmitLabel string
	CancelURL   string
}

// ConfirmView asks for confirmation before a delete.
type ConfirmView struct {
	Prompt    string
	Action    string
	CancelURL string
}

// NavItem is one entry of the app navigation.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// CRUDPage is the data of the "crud" template.
type CRUDPage struct {
	Title      string
	Heading    string
	TotalLabel string
	Total      int
	ListURL    string
	NewURL     string
	NewLabel   string
	EmptyLabel string
	Failed     bool
	LoadError  string
	Table      template.HTML
	Alert      string
	Modal      *ModalView
	Confirm    *ConfirmView
	Nav        []NavItem
	Stats      []stats.Count
}

// LoginPage is the data of the "login" template.
type LoginPage struct {
	Title       string
	Fields      []FieldView
	SubmitError string
}

// RegisterPage is the data of the "register" and "verify" templates.
type RegisterPage struct {
	Title       string
	Fields      []FieldView
	SubmitError string
	Code        string
	CodeError   string
	Remaining   int
	Countdown   string
}

// ErrorPage is the data of the "error" template.
type ErrorPage struct {
	Title   string
	Status  int
	Message string
}
