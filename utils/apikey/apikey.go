package apikey

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// APIKeyPayload 是 API Key 的內容
type APIKeyPayload struct {
	UserID   string `json:"userID"`
	IssuedAt int64  `json:"issuedAt"`
}

// 產生 API Key
func GenerateAPIKey(userID, secret string) (string, error) {
	payload := APIKeyPayload{
		UserID:   userID,
		IssuedAt: time.Now().Unix(),
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	pb64 := base64.RawURLEncoding.EncodeToString(pb)
	sig := signShort(pb64, secret)
	return pb64 + "." + sig, nil
}

// 驗證並解析 API Key
func ParseAndVerifyAPIKey(apiKey, secret string) (*APIKeyPayload, error) {
	parts := strings.Split(apiKey, ".")
	if len(parts) != 2 {
		return nil, errors.New("invalid api key format")
	}
	pb64, sig := parts[0], parts[1]
	if signShort(pb64, secret) != sig {
		return nil, errors.New("invalid api key signature")
	}
	pb, err := base64.RawURLEncoding.DecodeString(pb64)
	if err != nil {
		return nil, err
	}
	var pl APIKeyPayload
	if err := json.Unmarshal(pb, &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

// 只解析 payload，不驗證（用於管理工具，不建議用於認證）
func DecodeAPIKeyPayload(apiKey string) (*APIKeyPayload, error) {
	parts := strings.Split(apiKey, ".")
	if len(parts) != 2 {
		return nil, errors.New("invalid api key format")
	}
	pb, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, err
	}
	var pl APIKeyPayload
	if err := json.Unmarshal(pb, &pl); err != nil {
		return nil, err
	}
	return &pl, nil
}

// HMAC-SHA256 簽章，僅取前16字元
func signShort(pb64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(pb64))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))[:16]
}
