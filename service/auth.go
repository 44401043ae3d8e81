package service

import (
	"context"
	"errors"
	"time"

	"github.com/ThanosTheo/maze-singleplayer/identity"
	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/google/uuid"
)

const defaultTokenTTL = 24 * time.Hour

var _ i.Authenticator = &Auth{}

type Auth struct {
	userRepo  i.UserRepo
	tokenizer i.Tokenizer
	tokenTTL  time.Duration
}

// NewAuthService creates an Auth issuing tokens valid for ttl. A
// non-positive ttl falls back to one day.
func NewAuthService(userRepo i.UserRepo, tokenizer i.Tokenizer, ttl time.Duration) *Auth {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Auth{
		userRepo:  userRepo,
		tokenizer: tokenizer,
		tokenTTL:  ttl,
	}
}

func (a *Auth) Register(ctx context.Context, username, password string) error {
	_, err := a.userRepo.ByUsername(ctx, username)
	if err == nil {
		return identity.ErrUsernameConflict
	}
	if !errors.Is(err, identity.ErrUserNotFound) {
		return err
	}

	userConfig := identity.UserConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
	}

	user, err := identity.NewUser(userConfig)
	if err != nil {
		return err
	}

	return a.userRepo.Save(ctx, user)
}

func (a *Auth) SignIn(ctx context.Context, username, password string) (*identity.User, string, error) {
	user, err := a.userRepo.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, "", identity.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.VerifyPassword(password) {
		return nil, "", identity.ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(identity.Claims(user), a.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}
