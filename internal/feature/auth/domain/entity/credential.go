// Package entity defines the domain entities for the auth feature.
package entity

import "encoding/json"

// Credential represents a stored user credential.
// The on-disk document maps username -> credential, where older deployments
// stored the value as a bare digest string and current ones store an object
// with the digest and an optional email address. Both shapes unmarshal into
// this type.
type Credential struct {
	// PasswordDigest is the one-way hash of the user's password.
	// This never stores plaintext passwords.
	PasswordDigest string `json:"password_digest"`

	// Email is the user's email address. Optional; when present it must be
	// unique across all credentials.
	Email string `json:"email,omitempty"`
}

// UnmarshalJSON accepts both the legacy bare-digest string form and the
// current object form.
func (c *Credential) UnmarshalJSON(data []byte) error {
	var digest string
	if err := json.Unmarshal(data, &digest); err == nil {
		c.PasswordDigest = digest
		c.Email = ""
		return nil
	}

	type alias Credential
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Credential(a)
	return nil
}
