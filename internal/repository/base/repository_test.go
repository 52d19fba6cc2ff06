package base

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	slotTaken := &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "bookings_slot_unique"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{name: "matching constraint", err: slotTaken, constraint: "bookings_slot_unique", want: true},
		{name: "any constraint", err: slotTaken, constraint: "", want: true},
		{
			name:       "other constraint",
			err:        &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "profiles_pkey"},
			constraint: "bookings_slot_unique",
			want:       false,
		},
		{
			name:       "foreign key",
			err:        &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "bookings_user_id_fkey"},
			constraint: "bookings_slot_unique",
			want:       false,
		},
		{name: "wrapped", err: fmt.Errorf("insert: %w", slotTaken), constraint: "bookings_slot_unique", want: true},
		{name: "plain error", err: errors.New("23505"), constraint: "", want: false},
		{name: "nil", err: nil, constraint: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "bookings_user_id_fkey"}

	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert: %w", fk)))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsNotFound(errors.New("boom")))
}
