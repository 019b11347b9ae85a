package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Account is the server-side identity record. Password material never
// leaves the backend; the client only ever sees the Identity shape.
type Account struct {
	ID        uuid.UUID
	Email     string
	PwdHash   []byte // Argon2id(password, SaltAuth)
	SaltAuth  []byte // per-account auth salt
	CreatedAt time.Time
}

// Identity returns the client-facing shape of the account.
func (a Account) Identity() Identity {
	return Identity{ID: a.ID.String(), Email: a.Email, CreatedAt: a.CreatedAt}
}
