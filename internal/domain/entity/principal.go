package entity

import "github.com/google/uuid"

// Principal is the authenticated admin behind a console request.
// SessionID names the login and survives token refreshes; console state is
// scoped to it. TokenID is the access token presented with the request.
type Principal struct {
	UserID    uuid.UUID
	SessionID string
	TokenID   string
	Role      UserRole
}
