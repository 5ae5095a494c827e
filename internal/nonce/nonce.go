// Package nonce issues and verifies per-action anti-forgery tokens.
//
// A token is an HMAC-SHA256 over (tick, action, subject). The tick advances every
// half lifetime and a token verifies during its own tick and the next one, so a
// token is accepted for between half and one full lifetime after issue.
package nonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Actions guarded by tokens.
const (
	ActionSearch = "pinned_nav_search"
	ActionSave   = "save_pinned_items"
	ActionLookup = "pinned_nav_lookup"
)

// TokenLength is the number of hex characters in a token.
const TokenLength = 20

// DefaultLifetime is the token lifetime when none is configured.
const DefaultLifetime = 24 * time.Hour

// Issuer creates and checks tokens with a shared secret.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// NewIssuer returns an Issuer. A non-positive lifetime selects DefaultLifetime.
func NewIssuer(secret string, lifetime time.Duration, opts ...Option) *Issuer {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	i := &Issuer{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Create returns a token for subject performing action.
func (i *Issuer) Create(subject, action string) string {
	return i.sign(i.tick(), subject, action)
}

// Verify reports whether token was issued for subject and action and has not expired.
func (i *Issuer) Verify(subject, action, token string) bool {
	if len(token) != TokenLength || subject == "" {
		return false
	}
	tick := i.tick()
	for _, t := range []int64{tick, tick - 1} {
		if hmac.Equal([]byte(i.sign(t, subject, action)), []byte(token)) {
			return true
		}
	}
	return false
}

func (i *Issuer) tick() int64 {
	half := int64(i.lifetime / 2 / time.Second)
	if half < 1 {
		half = 1
	}
	return i.now().Unix() / half
}

func (i *Issuer) sign(tick int64, subject, action string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(strconv.FormatInt(tick, 10) + "|" + action + "|" + subject))
	return hex.EncodeToString(mac.Sum(nil))[:TokenLength]
}
