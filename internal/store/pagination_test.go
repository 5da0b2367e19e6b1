package store

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero defaults", 0, DefaultLimit},
		{"negative defaults", -5, DefaultLimit},
		{"within bounds unchanged", 50, 50},
		{"over max clamps", 500, MaxLimit},
		{"exactly max unchanged", MaxLimit, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLimit(tt.limit))
		})
	}
}

func TestCursor_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)
	id := "rental-abc-123"

	cursor := EncodeCursor(createdAt, id)
	gotCreatedAt, gotID, err := DecodeCursor(cursor)

	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotCreatedAt))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_RejectsGarbage(t *testing.T) {
	_, _, err := DecodeCursor("not-valid-base64!!!")
	assert.Error(t, err)
}

func TestDecodeCursor_RejectsMalformedShape(t *testing.T) {
	bogus := base64.RawURLEncoding.EncodeToString([]byte("no-colon-here"))
	_, _, err := DecodeCursor(bogus)
	assert.Error(t, err)
}

func TestDecodeCursor_RejectsNonNumericTimestamp(t *testing.T) {
	bogus := base64.RawURLEncoding.EncodeToString([]byte("not-a-number:some-id"))
	_, _, err := DecodeCursor(bogus)
	assert.Error(t, err)
}
