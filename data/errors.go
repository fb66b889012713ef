package data

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
	sqliteUniqueFailed  = "UNIQUE constraint failed"
)

// IsUniqueViolation reports whether err is a unique-constraint violation in
// any supported dialect.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), sqliteUniqueFailed)
}
