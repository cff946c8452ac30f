package helper

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE yang dipetakan ke 409
const (
	PGUniqueViolation     = "23505"
	PGForeignKeyViolation = "23503"
)

// PGCode mengambil SQLSTATE dari error pgx atau lib/pq ("" kalau bukan error PG).
func PGCode(err error) string {
	if err == nil {
		return ""
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return PGCode(err) == PGUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return PGCode(err) == PGForeignKeyViolation
}
