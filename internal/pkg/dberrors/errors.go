package dberrors

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"
)

// IsDuplicateKeyError reports whether err is a unique-constraint violation from
// either supported driver.
func IsDuplicateKeyError(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsDuplicateConstraintError checks if err is a unique violation of the named
// constraint. MySQL reports the key name inside the message
// ("Duplicate entry 'x' for key 'users.uq_users_username'"), PostgreSQL in a field.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry && mysqlKeyMatches(myErr.Message, constraintName)
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraintName
}

func mysqlKeyMatches(message, constraintName string) bool {
	idx := strings.LastIndex(message, "for key '")
	if idx < 0 {
		return false
	}
	key := strings.TrimSuffix(message[idx+len("for key '"):], "'")
	// MySQL 8 prefixes the table name.
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key == constraintName
}
