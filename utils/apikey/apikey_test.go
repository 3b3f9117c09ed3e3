package apikey

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyRoundtrip(t *testing.T) {
	key, err := GenerateAPIKey("64f000000000000000000001", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, key, ".")

	payload, err := ParseAndVerifyAPIKey(key, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", payload.UserID)
	assert.NotZero(t, payload.IssuedAt)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	key, err := GenerateAPIKey("u1", "s3cret")
	require.NoError(t, err)

	_, err = ParseAndVerifyAPIKey(key, "other")
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	key, err := GenerateAPIKey("u1", "s3cret")
	require.NoError(t, err)

	parts := strings.Split(key, ".")
	require.Len(t, parts, 2)

	forged, err := json.Marshal(APIKeyPayload{UserID: "someone-else", IssuedAt: 1})
	require.NoError(t, err)
	tampered := base64.RawURLEncoding.EncodeToString(forged) + "." + parts[1]

	_, err = ParseAndVerifyAPIKey(tampered, "s3cret")
	assert.Error(t, err)
}

func TestVerifyRejectsMalformedKey(t *testing.T) {
	for _, key := range []string{"", "nodot", "a.b.c", "!!!.sig"} {
		_, err := ParseAndVerifyAPIKey(key, "s3cret")
		assert.Error(t, err, key)
	}
}

func TestDecodePayloadSkipsSignatureCheck(t *testing.T) {
	key, err := GenerateAPIKey("u1", "s3cret")
	require.NoError(t, err)

	// 換掉簽章後仍可解析 payload
	parts := strings.Split(key, ".")
	payload, err := DecodeAPIKeyPayload(parts[0] + ".bogus")
	require.NoError(t, err)
	assert.Equal(t, "u1", payload.UserID)
}
