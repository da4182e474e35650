package entity

import (
	"encoding/json"
	"time"
)

// ResetToken binds a single-use password-reset token to a username.
// The on-disk document maps token -> record. Older deployments stored the
// value as a bare username string with no expiry; current records carry an
// expiry timestamp. Both shapes unmarshal into this type.
type ResetToken struct {
	// Username is the account the bearer of the token may reset.
	Username string `json:"username"`

	// ExpiresAt is the time after which the token is no longer redeemable.
	// Zero means no expiry (legacy records).
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Expired returns true if the token carries an expiry and it has passed.
func (t *ResetToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// UnmarshalJSON accepts both the legacy bare-username string form and the
// current object form.
func (t *ResetToken) UnmarshalJSON(data []byte) error {
	var username string
	if err := json.Unmarshal(data, &username); err == nil {
		t.Username = username
		t.ExpiresAt = time.Time{}
		return nil
	}

	type alias ResetToken
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = ResetToken(a)
	return nil
}
