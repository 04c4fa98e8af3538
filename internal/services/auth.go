package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"colloquium/internal/domain"
)

type authService struct {
	adminRepo domain.AdminRepository
	hasher    domain.PasswordHasher
	issuer    domain.TokenIssuer
	allowlist map[string]struct{}
	expiry    time.Duration
}

// NewAuthService creates an AuthService. allowedEmails is the static admin
// allow-list; an account whose email is not listed is denied even with valid
// credentials.
func NewAuthService(
	adminRepo domain.AdminRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	allowedEmails []string,
	expiry time.Duration,
) domain.AuthService {
	allowlist := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		allowlist[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &authService{
		adminRepo: adminRepo,
		hasher:    hasher,
		issuer:    issuer,
		allowlist: allowlist,
		expiry:    expiry,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrUnauthorized
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, fmt.Errorf("get admin: %w", err)
	}

	if err := s.hasher.Compare(admin.PasswordHash, admin.Salt, password); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	// Authorization is a separate check after authentication succeeds, the
	// sign-in equivalent of the dashboard's forced sign-out.
	if !s.isAllowed(admin.Email) {
		return "", nil, domain.ErrForbidden
	}

	token, err := s.issuer.Issue(admin.ID, admin.Email, s.expiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, admin, nil
}

func (s *authService) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return admin, nil
}

func (s *authService) isAllowed(email string) bool {
	_, ok := s.allowlist[strings.ToLower(email)]
	return ok
}
