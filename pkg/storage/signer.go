package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("invalid download token")
	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	ErrTokenExpired = errors.New("download token expired")
)

// Grant is what a download token vouches for.
type Grant struct {
	JobID     string
	Name      string
	ExpiresAt time.Time
}

// Signer issues HMAC-SHA256 download tokens of the form
// jobID.expiryUnix.base64(name).signature.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner builds a signer. A non-positive ttl defaults to 24h.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token granting access to name on behalf of jobID.
func (s *Signer) Sign(jobID, name string) (string, Grant, error) {
	if jobID == "" || name == "" {
		return "", Grant{}, errors.New("sign: job id and name are required")
	}
	if len(s.secret) == 0 {
		return "", Grant{}, errors.New("sign: secret is empty")
	}
	if strings.Contains(jobID, ".") {
		return "", Grant{}, fmt.Errorf("sign: job id %q contains a dot", jobID)
	}
	grant := Grant{JobID: jobID, Name: name, ExpiresAt: s.now().Add(s.ttl).Truncate(time.Second)}
	exp := strconv.FormatInt(grant.ExpiresAt.Unix(), 10)
	encoded := base64.RawURLEncoding.EncodeToString([]byte(name))
	token := strings.Join([]string{jobID, exp, encoded, s.mac(jobID, exp, encoded)}, ".")
	return token, grant, nil
}

// Verify checks the signature and, unless allowExpired, the expiry.
func (s *Signer) Verify(token string, allowExpired bool) (Grant, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return Grant{}, ErrInvalidToken
	}
	jobID, exp, encoded, sig := parts[0], parts[1], parts[2], parts[3]
	if !hmac.Equal([]byte(sig), []byte(s.mac(jobID, exp, encoded))) {
		return Grant{}, ErrInvalidToken
	}
	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return Grant{}, ErrInvalidToken
	}
	name, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Grant{}, ErrInvalidToken
	}
	grant := Grant{JobID: jobID, Name: string(name), ExpiresAt: time.Unix(unix, 0)}
	if !allowExpired && s.now().After(grant.ExpiresAt) {
		return grant, ErrTokenExpired
	}
	return grant, nil
}

func (s *Signer) mac(jobID, exp, encoded string) string {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write([]byte(jobID + "|" + exp + "|" + encoded))
	return hex.EncodeToString(h.Sum(nil))
}
