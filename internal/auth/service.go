package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidCredentials = errors.New("Invalid email or password")

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	CreateAdmin(ctx context.Context, admin *Admin) error
	ListAdmins(ctx context.Context) ([]*Admin, error)
}

type AdminService struct {
	repo   AdminStore
	tokens *TokenManager
}

func NewAdminService(repo AdminStore, tokens *TokenManager) *AdminService {
	return &AdminService{repo: repo, tokens: tokens}
}

// Authenticate checks the credentials and issues a session token.
func (s *AdminService) Authenticate(ctx context.Context, cred Credential) (*Admin, string, error) {
	admin, err := s.repo.FindByEmail(ctx, normalizeEmail(cred.Email))
	if err != nil {
		return nil, "", err
	}
	if admin == nil || !CheckPasswordHash(cred.Password, admin.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateJWT(admin.ID.Hex(), admin.Email, admin.Role)
	if err != nil {
		return nil, "", err
	}
	return admin, token, nil
}

func (s *AdminService) Register(ctx context.Context, req RegisterRequest) (*Admin, error) {
	email := normalizeEmail(req.Email)
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAdminExists
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = RoleAdmin
	}
	admin := &Admin{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  hashed,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]*Admin, error) {
	return s.repo.ListAdmins(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
