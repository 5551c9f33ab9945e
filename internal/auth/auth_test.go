package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"squadup/backend/internal/store"
	apperr "squadup/backend/pkg/errors"
	"squadup/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func echoRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/who", mw, func(c *gin.Context) {
		id, err := ContextIdentity{}.CurrentUser(c.Request.Context())
		if err != nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func TestMiddleware(t *testing.T) {
	userID := uuid.New()
	token, err := jwt.GenerateToken(userID, secret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		url      string
		required bool
		status   int
		body     string
	}{
		{"bearer header", "Bearer " + token, "/who", true, http.StatusOK, userID.String()},
		{"query token", "", "/who?access_token=" + token, true, http.StatusOK, userID.String()},
		{"missing token", "", "/who", true, http.StatusUnauthorized, ""},
		{"malformed header", "Token " + token, "/who", true, http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", "/who", true, http.StatusUnauthorized, ""},
		{"optional without token", "", "/who", false, http.StatusOK, "anonymous"},
		{"optional with bad token", "Bearer nope", "/who", false, http.StatusOK, "anonymous"},
		{"optional with token", "Bearer " + token, "/who", false, http.StatusOK, userID.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := Middleware(secret)
			if !tt.required {
				mw = OptionalMiddleware(secret)
			}
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			echoRouter(mw).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestContextIdentity(t *testing.T) {
	_, err := ContextIdentity{}.CurrentUser(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = ContextIdentity{}.CurrentUser(WithUser(context.Background(), uuid.Nil))
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	id := uuid.New()
	got, err := ContextIdentity{}.CurrentUser(WithUser(context.Background(), id))
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewMemStore()
	require.NoError(t, err)
	accounts := NewAccounts(st, secret, time.Hour, bcrypt.MinCost, zerolog.Nop())

	user, token, err := accounts.Register(ctx, " ghost ", "ghost@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "ghost", user.Nickname)
	parsed, err := jwt.ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, parsed)

	t.Run("duplicate nickname", func(t *testing.T) {
		_, _, err := accounts.Register(ctx, "GHOST", "other@example.com", "password123")
		assert.ErrorIs(t, err, apperr.ErrNicknameTaken)
	})

	t.Run("login by nickname or email", func(t *testing.T) {
		for _, login := range []string{"ghost", "ghost@example.com"} {
			got, _, err := accounts.Login(ctx, login, "password123")
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		_, _, err := accounts.Login(ctx, "ghost", "wrong")
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
		_, _, err = accounts.Login(ctx, "nobody", "password123")
		assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	})

	t.Run("me", func(t *testing.T) {
		me, err := accounts.Me(WithUser(ctx, user.ID))
		require.NoError(t, err)
		assert.Equal(t, "ghost@example.com", me.Email)

		_, err = accounts.Me(ctx)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}
