package excelize_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/sitefind"
	sfexcelize "github.com/fwojciec/sitefind/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestSource_Companies(t *testing.T) {
	t.Parallel()

	t.Run("reads detected company column", func(t *testing.T) {
		t.Parallel()

		path := writeWorkbook(t, [][]any{
			{"ИНН", "Название"},
			{"7700000000", "ООО Ромашка"},
			{"7800000000", "NaN"},
			{"7900000000", "АО Альфа"},
			{"7700000000", "ООО Ромашка"},
		})

		got, err := sfexcelize.NewSource(path).Companies(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"ООО Ромашка", "АО Альфа"}, got)
	})

	t.Run("rejects empty sheet", func(t *testing.T) {
		t.Parallel()

		path := writeWorkbook(t, nil)

		_, err := sfexcelize.NewSource(path).Companies(context.Background())

		assert.Equal(t, sitefind.EINVALID, sitefind.ErrorCode(err))
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := sfexcelize.NewSource(filepath.Join(t.TempDir(), "missing.xlsx")).Companies(context.Background())

		assert.Error(t, err)
	})
}

func TestSink_WriteResults(t *testing.T) {
	t.Parallel()

	results := sitefind.NewResultMap()
	results.Set("ООО Ромашка", sitefind.Outcome{URL: "https://ромашка-строй.ru"})
	results.Set("Acme", sitefind.Outcome{})
	path := filepath.Join(t.TempDir(), "results.xlsx")

	require.NoError(t, sfexcelize.NewSink(path).WriteResults(context.Background(), results))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sfexcelize.ResultsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Company Name", "Website"},
		{"ООО Ромашка", "https://ромашка-строй.ru"},
		{"Acme", "Не найден"},
	}, rows)

	companies, err := sfexcelize.NewSource(path).Companies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ООО Ромашка", "Acme"}, companies)
}
