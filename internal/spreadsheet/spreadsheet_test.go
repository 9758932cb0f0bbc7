package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, "Evaluaciones", []string{"ID", "Comentarios"}, [][]string{
		{"1", `Nice, "great" work`},
		{"2", ""},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Evaluaciones"}, f.GetSheetList())
	rows, err := f.GetRows("Evaluaciones")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Comentarios"}, rows[0])
	assert.Equal(t, `Nice, "great" work`, rows[1][1])
}

func TestInspect(t *testing.T) {
	var full bytes.Buffer
	require.NoError(t, Write(&full, "Usuarios", []string{"carnet", "nombre"}, [][]string{{"1", "Ana"}, {"2", "Luis"}}))

	var headerOnly bytes.Buffer
	require.NoError(t, Write(&headerOnly, "Usuarios", []string{"carnet", "nombre"}, nil))

	summary, err := Inspect("datos.XLSX", full.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Rows)
	assert.Equal(t, []string{"Usuarios"}, summary.Sheets)

	_, err = Inspect("datos.xlsx", headerOnly.Bytes())
	assert.ErrorIs(t, err, ErrEmptyWorkbook)

	_, err = Inspect("datos.csv", full.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Inspect("datos.xlsx", []byte("no es un zip"))
	assert.Error(t, err)

	_, err = Inspect("viejo.xls", []byte{0xD0, 0xCF})
	assert.NoError(t, err)
}
