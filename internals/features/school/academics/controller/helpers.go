// file: internals/features/school/academics/controller/helpers.go
package controller

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// isUniqueViolation mendeteksi pelanggaran unique constraint Postgres
// (SQLSTATE 23505) supaya bisa dibalas 409, bukan 500. Fallback pengecekan
// string dipakai karena driver pgx membungkus error dengan tipe sendiri.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "23505")
}
