// Package auth carries the caller's identity. Authentication itself (login,
// sessions, refresh) lives in the identity-provider service; this core only
// validates the access token it is handed and trusts the ids inside.
package auth

import (
	"errors"
	"time"
)

var ErrUnauthorized = errors.New("unauthorized")

const (
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
	RoleOwner     = "OWNER"
)

type AccessClaims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}
