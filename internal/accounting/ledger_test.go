package accounting

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("plain error")))

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	assert.True(t, isUniqueViolation(unique))

	other := &pgconn.PgError{Code: pgerrcode.ExclusionViolation}
	assert.False(t, isUniqueViolation(other))

	wrapped := errors.Join(errors.New("context"), unique)
	assert.True(t, isUniqueViolation(wrapped))
}
