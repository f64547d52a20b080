package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// ─── Traducción de errores de PostgreSQL ─────────────────────────────────────

func TestPgErrorCodes(t *testing.T) {
	wrap := func(code string) error {
		return fmt.Errorf("insert document line: %w", &pgconn.PgError{Code: code})
	}

	assert.True(t, isUniqueViolation(wrap("23505")))
	assert.True(t, isForeignKeyViolation(wrap("23503")))
	assert.True(t, isCheckViolation(wrap("23514")))

	assert.False(t, isCheckViolation(wrap("23505")))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}

func TestNullableDeref(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "L1", deref(nullable("L1")))
	assert.Equal(t, "", deref(nil))
}
