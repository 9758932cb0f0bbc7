package view

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreen_RegionsExistOnlyAfterMount(t *testing.T) {
	s := NewScreen()

	_, ok := s.Region("users-table-body")
	assert.False(t, ok)

	assert.True(t, s.Mount(Template{Section: "users", Regions: []string{"users-table-body"}}))
	assert.False(t, s.Mount(Template{Section: "users", Regions: []string{"users-table-body"}}))

	region, ok := s.Region("users-table-body")
	require.True(t, ok)
	region.SetTable(Table{Columns: []string{"ID"}, Rows: []Row{{ID: 1}}})

	table, ok := s.Table("users-table-body")
	require.True(t, ok)
	assert.Len(t, table.Rows, 1)
}

func TestScreen_Toasts(t *testing.T) {
	s := NewScreen()
	s.Notify("guardado", SeveritySuccess)
	s.Notify("falló", SeverityError)
	s.Notify("ojo", SeverityWarning)

	toasts := s.DrainToasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, "bg-success", toasts[0].Class)
	assert.Equal(t, "bg-danger", toasts[1].Class)
	assert.Equal(t, "bg-warning", toasts[2].Class)
	assert.NotEmpty(t, toasts[0].ID)
	assert.Empty(t, s.Toasts())

	for i := 0; i < maxToasts+5; i++ {
		s.Notify("x", SeverityInfo)
	}
	assert.Len(t, s.Toasts(), maxToasts)
}

func TestScreen_Confirm(t *testing.T) {
	s := NewScreen()

	assert.False(t, s.Confirm(context.Background(), "¿Eliminar?"))
	assert.Equal(t, "¿Eliminar?", s.LastPrompt())

	assert.False(t, s.Confirm(WithConfirmation(context.Background(), false), "¿Eliminar?"))
	assert.True(t, s.Confirm(WithConfirmation(context.Background(), true), "¿Eliminar?"))
}

func TestScreen_Loading(t *testing.T) {
	s := NewScreen()
	s.SetLoading(true)
	s.SetLoading(true)
	s.SetLoading(false)
	assert.True(t, s.Loading())
	s.SetLoading(false)
	s.SetLoading(false)
	assert.False(t, s.Loading())
}

func TestScreen_Dialogs(t *testing.T) {
	s := NewScreen()
	s.OpenForm(Form{ID: "user-form"})
	_, ok := s.Form()
	assert.True(t, ok)

	s.OpenDetail(Detail{Title: "Usuario"})
	_, ok = s.Form()
	assert.False(t, ok)
	_, ok = s.Detail()
	assert.True(t, ok)

	s.CloseDialog()
	_, ok = s.Detail()
	assert.False(t, ok)
}

func TestForm_WithValues(t *testing.T) {
	f := Form{Fields: []Field{
		{Name: "name", Type: FieldText},
		{Name: "teamIds", Type: FieldMultiSelect},
		{Name: "roleId", Type: FieldSelect, Value: "1"},
	}}

	filled := f.WithValues(url.Values{"name": {"Ana"}, "teamIds": {"1", "3"}})
	assert.Equal(t, "Ana", filled.Fields[0].Value)
	assert.Equal(t, []string{"1", "3"}, filled.Fields[1].Values)
	assert.True(t, filled.Fields[1].Selected("3"))
	assert.Equal(t, "1", filled.Fields[2].Value)
	assert.Empty(t, f.Fields[0].Value)
}
