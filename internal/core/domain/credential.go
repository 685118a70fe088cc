package domain

import "time"

// Credential is a short-lived access token plus its refresh material.
// An expired Credential must never be attached to a remote call.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"-"` // never serialized to caches or logs
	Expiry       time.Time `json:"expiry"`
	CustomerID   string    `json:"customer_id,omitempty"`
}

// ValidAt reports whether the credential is usable at now, keeping the
// given safety margin before actual expiry.
func (c Credential) ValidAt(now time.Time, margin time.Duration) bool {
	if c.AccessToken == "" {
		return false
	}
	return now.Add(margin).Before(c.Expiry)
}

// TTLAt returns the remaining lifetime at now, zero when already expired.
func (c Credential) TTLAt(now time.Time) time.Duration {
	ttl := c.Expiry.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
