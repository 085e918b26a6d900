package sitefind_test

import (
	"testing"

	"github.com/fwojciec/sitefind"
	"github.com/stretchr/testify/assert"
)

func TestCompanyColumn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, sitefind.CompanyColumn([]string{"ИНН", "Название"}))
	assert.Equal(t, 2, sitefind.CompanyColumn([]string{"id", "city", "Company Name"}))
	assert.Equal(t, 0, sitefind.CompanyColumn([]string{"\ufeffCompany Name", "Website"}))
	assert.Equal(t, 0, sitefind.CompanyColumn([]string{"name", "city"}))
	assert.Equal(t, 0, sitefind.CompanyColumn(nil))
}

func TestCleanCompanies(t *testing.T) {
	t.Parallel()

	got := sitefind.CleanCompanies([]string{" Альфа ", "", "Бета", "nan", "Альфа", "N/A", "  ", "Гамма"})

	assert.Equal(t, []string{"Альфа", "Бета", "Гамма"}, got)
}
