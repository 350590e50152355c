// file: model/token.go

package model

import "time"

// RefreshToken is the server-side record of an issued refresh token, keyed
// by the jti claim embedded in the signed token. Rotation revokes the
// consumed record; rows are never physically deleted.
type RefreshToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	JTI       string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"-"`
}
