package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	occurredAt := time.Date(2023, 5, 15, 9, 30, 0, 0, time.UTC)
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(occurredAt, createdAt, "txn-1")
	assert.NotEmpty(t, token, "Token should not be empty")

	gotOccurred, gotCreated, gotID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, occurredAt, gotOccurred)
	assert.Equal(t, createdAt, gotCreated)
	assert.Equal(t, "txn-1", gotID)

	// IDs may contain the separator; everything after the second one is the ID
	token = EncodeToken(occurredAt, createdAt, "a|b")
	_, _, gotID, err = DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "a|b", gotID)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	twoParts := base64.URLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z"))
	_, _, _, err = DecodeToken(twoParts)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|2023-05-15T14:30:45Z|id"))
	_, _, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "occurred_at parse")

	badCreated := base64.URLEncoding.EncodeToString([]byte("2023-05-15T14:30:45Z|nope|id"))
	_, _, _, err = DecodeToken(badCreated)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "created_at parse")

	noID := base64.URLEncoding.EncodeToString([]byte("2023-05-15T14:30:45Z|2023-05-15T14:30:45Z|"))
	_, _, _, err = DecodeToken(noID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}
