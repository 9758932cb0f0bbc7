// Package view holds the presentation ports the coordinators render into and an
// in-memory implementation of them shared by the web console and the tests.
package view

import (
	"context"
	"net/url"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ToastClass maps a severity to the toast background class.
func ToastClass(s Severity) string {
	switch s {
	case SeverityError:
		return "bg-danger"
	case SeverityWarning:
		return "bg-warning"
	default:
		return "bg-success"
	}
}

type Notifier interface {
	Notify(message string, severity Severity)
}

// Cell is a table cell. Badge, when set, is the badge class the text is shown in.
type Cell struct {
	Text  string
	Title string
	Badge string
}

// Row is one table line. Placeholder rows carry the "no data" text and no actions.
type Row struct {
	ID          int64
	Cells       []Cell
	Placeholder bool
}

type Table struct {
	Columns []string
	Rows    []Row
}

type Option struct {
	Value string
	Label string
}

type FilterField struct {
	Name     string
	Label    string
	Type     string
	Options  []Option
	Selected string
}

type FilterPanel struct {
	Fields  []FilterField
	Showing int
	Total   int
}

// Region is a mounted part of a section the coordinators write into.
type Region interface {
	SetTable(t Table)
	SetFilters(f FilterPanel)
}

type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Values   []string
	Options  []Option
	Required bool
	Min      string
	Max      string
	Step     string
	Help     string
}

func (f Field) Selected(value string) bool {
	if f.Value == value {
		return true
	}
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

type Form struct {
	ID          string
	Section     string
	Title       string
	EntityID    int64
	SubmitLabel string
	Fields      []Field
	Error       string
}

// WithValues returns a copy of the form with field values taken from submitted data.
func (f Form) WithValues(values url.Values) Form {
	fields := make([]Field, len(f.Fields))
	copy(fields, f.Fields)
	for i := range fields {
		submitted, ok := values[fields[i].Name]
		if !ok {
			continue
		}
		if fields[i].Type == FieldMultiSelect {
			fields[i].Values = append([]string(nil), submitted...)
			continue
		}
		if len(submitted) > 0 {
			fields[i].Value = submitted[0]
		}
	}
	f.Fields = fields
	return f
}

const (
	FieldText        = "text"
	FieldEmail       = "email"
	FieldNumber      = "number"
	FieldURL         = "url"
	FieldTextArea    = "textarea"
	FieldSelect      = "select"
	FieldMultiSelect = "multiselect"
	FieldDateTime    = "datetime-local"
	FieldDate        = "date"
)

type DetailItem struct {
	Label string
	Value string
}

type Detail struct {
	Section string
	Title   string
	Items   []DetailItem
	Lists   map[string][]string
}

type Dialogs interface {
	OpenForm(f Form)
	OpenDetail(d Detail)
	CloseDialog()
	// Confirm blocks a destructive action until the operator agrees.
	Confirm(ctx context.Context, prompt string) bool
}

// Template describes the regions a section mounts the first time it is shown.
type Template struct {
	Section string
	Title   string
	Regions []string
}

type Surface interface {
	Notifier
	Dialogs
	Region(id string) (Region, bool)
	Mount(t Template) bool
	Show(section string)
	SetLoading(on bool)
}

type confirmKey struct{}

// WithConfirmation carries the operator's answer to a confirmation prompt.
func WithConfirmation(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, confirmKey{}, confirmed)
}

func ConfirmationFrom(ctx context.Context) (confirmed, ok bool) {
	confirmed, ok = ctx.Value(confirmKey{}).(bool)
	return confirmed, ok
}
