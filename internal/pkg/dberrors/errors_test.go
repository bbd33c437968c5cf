package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	myDup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'an' for key 'users.uq_users_username'"}
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_username"}

	assert.True(t, IsDuplicateKeyError(myDup))
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("insert user: %w", myDup)))
	assert.True(t, IsDuplicateKeyError(pgDup))
	assert.False(t, IsDuplicateKeyError(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsDuplicateKeyError(errors.New("boom")))
	assert.False(t, IsDuplicateKeyError(nil))
}

func TestIsDuplicateConstraintError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"mysql8 qualified key", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.vn' for key 'users.uq_users_email'"}, "uq_users_email", true},
		{"mysql5 bare key", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1' for key 'uq_users_single_admin'"}, "uq_users_single_admin", true},
		{"mysql other key", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'users.PRIMARY'"}, "uq_users_email", false},
		{"postgres match", &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_email"}, "uq_users_email", true},
		{"postgres other", &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"}, "uq_users_email", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateConstraintError(tt.err, tt.constraint))
		})
	}
}
