// file: internals/helpers/pagination_test.go
package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeOrderClause(t *testing.T) {
	allowed := map[string]string{
		"due_date":   "invoice_due_date",
		"created_at": "invoice_created_at",
	}

	p := Params{SortBy: "due_date", SortOrder: "asc"}
	clause, err := p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY invoice_due_date ASC", clause)

	// sort_by kosong memakai default
	p = Params{SortOrder: "desc"}
	clause, err = p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY invoice_created_at DESC", clause)

	// di luar whitelist jatuh ke default, apapun isinya
	p = Params{SortBy: "(SELECT pg_sleep(10))", SortOrder: "asc"}
	clause, err = p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY invoice_created_at ASC", clause)

	p = Params{SortBy: "invoice_number; DROP TABLE invoices--", SortOrder: "desc"}
	clause, err = p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY invoice_created_at DESC", clause)

	// arah tidak dikenal dinormalisasi ke DESC
	p = Params{SortBy: "due_date", SortOrder: "sideways"}
	clause, err = p.SafeOrderClause(allowed, "created_at")
	require.NoError(t, err)
	assert.Equal(t, "ORDER BY invoice_due_date DESC", clause)

	// default key yang tidak terdaftar = salah konfigurasi
	p = Params{SortBy: "x"}
	_, err = p.SafeOrderClause(allowed, "missing")
	require.Error(t, err)
}
