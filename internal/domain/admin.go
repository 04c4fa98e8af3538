package domain

import (
	"context"
	"time"
)

// Admin is a dashboard operator account. Having an account is not sufficient
// for access: the email must also be on the configured allow-list.
// swagger:model Admin
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminRepository defines storage operations for admin accounts.
type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	GetByID(ctx context.Context, id string) (*Admin, error)
}

// AuthService authenticates dashboard operators.
type AuthService interface {
	// Login verifies credentials and the allow-list, returning a signed token.
	// Returns ErrUnauthorized for bad credentials and ErrForbidden for a valid
	// account whose email is not allow-listed.
	Login(ctx context.Context, email, password string) (string, *Admin, error)
	// GetByID loads the admin for an authenticated token subject.
	GetByID(ctx context.Context, id string) (*Admin, error)
}

// TokenClaims is the verified identity carried by a session token.
type TokenClaims struct {
	AdminID string
	Email   string
}

// TokenIssuer signs session tokens for authenticated admins.
type TokenIssuer interface {
	Issue(adminID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier validates a session token and extracts its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// PasswordHasher hashes and compares admin passwords.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (string, error)
	Compare(hash, salt, password string) error
}
