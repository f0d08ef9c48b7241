package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	id := "a1b2c3d4-0000-1111-2222-333344445555"

	token := EncodeToken(createdAt, id)
	require.NotEmpty(t, token)

	gotTime, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestDecodeTokenInvalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"missing separator", "bm8tc2VwYXJhdG9y"}, // "no-separator"
		{"bad timestamp", "bm90LWEtdGltZXxpZA=="}, // "not-a-time|id"
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := DecodeToken(tc.token)
			assert.Error(t, err)
		})
	}
}

func TestMultiFieldToken(t *testing.T) {
	fields := []string{"2026-01-01T00:00:00Z", "some-id", "CONFIRMED"}
	token := EncodeMultiFieldToken(fields...)

	got, err := DecodeMultiFieldToken(token)
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}
