package utils_test

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/finovate_app/internal/core/domain"
	"github.com/SscSPs/finovate_app/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransactionCustomID(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ids := make([]string, 0, 20)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id := utils.NewTransactionCustomID(at)
		require.True(t, strings.HasPrefix(id, "TX-"), id)
		assert.Len(t, id, len("TX-")+26)
		_, err := ulid.ParseStrict(strings.TrimPrefix(id, utils.TransactionIDPrefix))
		assert.NoError(t, err, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		ids = append(ids, id)
	}
	assert.True(t, sort.StringsAreSorted(ids), "ids from the same millisecond keep creation order")
}

func TestFormatWithCurrencyPrecision(t *testing.T) {
	assert.Equal(t, "12.35", utils.FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), domain.USD))
	assert.Equal(t, "5.00", utils.FormatWithCurrencyPrecision(decimal.NewFromInt(5), domain.PEN))
	assert.Equal(t, "-0.10", utils.FormatWithPrecision(decimal.RequireFromString("-0.1"), 2))
}

func TestIdentityToken_RoundTrip(t *testing.T) {
	token, err := utils.GenerateIdentityToken(domain.Identity{UserID: "42", Role: domain.RoleAdmin}, "secret", time.Hour, "finovate")
	require.NoError(t, err)

	identity, err := utils.ParseIdentityToken(token, "secret", "finovate")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: "42", Role: domain.RoleAdmin}, identity)
}

func TestIdentityToken_DefaultsToUserRole(t *testing.T) {
	token, err := utils.GenerateIdentityToken(domain.Identity{UserID: "7"}, "secret", time.Hour, "")
	require.NoError(t, err)

	identity, err := utils.ParseIdentityToken(token, "secret", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, identity.Role)
}

func TestIdentityToken_Rejections(t *testing.T) {
	valid, err := utils.GenerateIdentityToken(domain.Identity{UserID: "1"}, "secret", time.Hour, "finovate")
	require.NoError(t, err)

	_, err = utils.ParseIdentityToken(valid, "other-secret", "finovate")
	assert.Error(t, err, "wrong secret")

	_, err = utils.ParseIdentityToken(valid, "secret", "someone-else")
	assert.Error(t, err, "wrong issuer")

	expired, err := utils.GenerateIdentityToken(domain.Identity{UserID: "1"}, "secret", -time.Minute, "finovate")
	require.NoError(t, err)
	_, err = utils.ParseIdentityToken(expired, "secret", "finovate")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.IdentityClaims{
		Role:             "root",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := badRole.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = utils.ParseIdentityToken(signed, "secret", "")
	assert.Error(t, err)

	_, err = utils.ParseIdentityToken("not-a-token", "secret", "")
	assert.Error(t, err)
}
