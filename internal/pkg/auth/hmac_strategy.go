package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var tokenEncoding = base64.RawURLEncoding

// HMACStrategy implements compact tokens of the form payload.signature where
// payload is "<userID>:<unix expiry>" and signature is HMAC-SHA256 over it.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	return &HMACStrategy{secret: []byte(secret), ttl: opts.ttl()}
}

// IssueToken generates signed auth token for the user.
func (s *HMACStrategy) IssueToken(userID int64) (string, error) {
	expires := time.Now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%d:%d", userID, expires)
	return tokenEncoding.EncodeToString([]byte(payload)) + "." + tokenEncoding.EncodeToString(s.sign(payload)), nil
}

// ParseToken validates token and returns encoded user ID.
func (s *HMACStrategy) ParseToken(token string) (int64, error) {
	encodedPayload, encodedSig, ok := strings.Cut(token, ".")
	if !ok {
		return 0, ErrInvalidToken
	}

	rawPayload, err := tokenEncoding.DecodeString(encodedPayload)
	if err != nil {
		return 0, ErrInvalidToken
	}
	sig, err := tokenEncoding.DecodeString(encodedSig)
	if err != nil {
		return 0, ErrInvalidToken
	}

	payload := string(rawPayload)
	if !hmac.Equal(s.sign(payload), sig) {
		return 0, ErrInvalidToken
	}

	idPart, expPart, ok := strings.Cut(payload, ":")
	if !ok {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(expPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	if !time.Now().Before(time.Unix(expires, 0)) {
		return 0, ErrInvalidToken
	}

	return userID, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}
