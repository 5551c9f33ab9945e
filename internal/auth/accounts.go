package auth

import (
	"context"
	"strings"
	"time"

	"squadup/backend/internal/models"
	"squadup/backend/internal/store"
	apperr "squadup/backend/pkg/errors"
	"squadup/backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the lobby store that accounts need.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

var _ UserStore = (store.Store)(nil)

// Accounts registers and logs in players and mints their tokens.
type Accounts struct {
	users      UserStore
	secret     string
	ttl        time.Duration
	bcryptCost int
	log        zerolog.Logger
}

func NewAccounts(users UserStore, secret string, ttl time.Duration, bcryptCost int, log zerolog.Logger) *Accounts {
	return &Accounts{
		users:      users,
		secret:     secret,
		ttl:        ttl,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "accounts").Logger(),
	}
}

// Register creates a user and returns a token for it.
func (a *Accounts) Register(ctx context.Context, nickname, email, password string) (models.User, string, error) {
	nickname = strings.TrimSpace(nickname)
	email = strings.TrimSpace(email)
	if nickname == "" || email == "" {
		return models.User{}, "", apperr.InvalidArg("nickname and email are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return models.User{}, "", apperr.Internal("failed to hash password", err)
	}

	user, err := a.users.CreateUser(ctx, models.User{
		Nickname:     nickname,
		Email:        email,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		return models.User{}, "", err
	}

	token, err := a.token(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	a.log.Info().Str("user_id", user.ID.String()).Str("nickname", user.Nickname).Msg("user registered")
	return user, token, nil
}

// Login authenticates by nickname or email. Unknown logins and wrong passwords are
// indistinguishable to the caller.
func (a *Accounts) Login(ctx context.Context, login, password string) (models.User, string, error) {
	user, err := a.users.FindUserByLogin(ctx, login)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return models.User{}, "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", apperr.ErrInvalidCredentials
	}

	token, err := a.token(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return user, token, nil
}

// Me returns the profile of the authenticated caller.
func (a *Accounts) Me(ctx context.Context) (models.User, error) {
	id, err := ContextIdentity{}.CurrentUser(ctx)
	if err != nil {
		return models.User{}, err
	}
	return a.users.GetUser(ctx, id)
}

func (a *Accounts) token(userID uuid.UUID) (string, error) {
	token, err := jwt.GenerateToken(userID, a.secret, a.ttl)
	if err != nil {
		return "", apperr.Internal("failed to generate token", err)
	}
	return token, nil
}
