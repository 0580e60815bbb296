package service

import (
	"context"
	"errors"
	"strings"

	"github.com/PlayerLynx/AI-Study-Buddy/internal"
	"github.com/PlayerLynx/AI-Study-Buddy/internal/storage"
)

// ErrInvalidCredentials is returned by Login for an unknown username or a
// wrong password alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

type CredentialsRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

func (r *CredentialsRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Password = strings.TrimSpace(r.Password)
}

// Register creates an account. A taken username surfaces as
// storage.ErrDuplicateUsername.
func Register(ctx context.Context, users storage.UserRepository, req *CredentialsRequest) (int64, error) {
	req.normalize()
	if err := validateStruct(req); err != nil {
		return 0, err
	}
	return users.CreateUser(ctx, req.Username, req.Password)
}

func Login(ctx context.Context, users storage.UserRepository, req *CredentialsRequest) (*internal.User, error) {
	req.normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := users.VerifyUser(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
