package store

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Page is the cursor-based pagination envelope every list endpoint returns.
type Page[T any] struct {
	Items      []T   `json:"items"`
	NextCursor *string `json:"nextCursor"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ClampLimit enforces the 1..100 bound, defaulting to 20.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// cursor encodes (createdAt, id) as an opaque string so callers cannot
// construct one out of thin air and so the SQL WHERE clause stays a simple
// tuple comparison.
func EncodeCursor(createdAt time.Time, id string) string {
	raw := fmt.Sprintf("%d:%s", createdAt.UnixNano(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(cursor string) (createdAt time.Time, id string, err error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor encoding: %w", err)
	}
	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid cursor shape")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	return time.Unix(0, nanos), parts[1], nil
}
