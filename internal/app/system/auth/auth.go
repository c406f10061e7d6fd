// Package auth implements bearer-token authentication for the API.
//
// Tokens are HS256-signed JWTs whose subject is the user's ObjectID.
// LoadTokenUser resolves the token to a full user record and puts it in the
// request context; RequireSignedIn gates handlers on that record being
// present. Token issuance belongs to the upstream identity service, so
// Issue exists mainly for tests and local tooling.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/taskhub/internal/app/system/httpjson"
	"github.com/dalemusser/taskhub/internal/app/system/timeouts"
	"github.com/dalemusser/taskhub/internal/domain/models"
)

const minSecretLen = 32

var (
	ErrBadToken     = errors.New("auth: invalid token")
	ErrShortSecret  = fmt.Errorf("auth: signing secret must be at least %d bytes", minSecretLen)
	ErrUnknownUser  = errors.New("auth: token subject does not match a user")
	ErrMissingToken = errors.New("auth: no bearer token in request")
)

// UserLoader resolves a token subject to a user record. *users.Store
// satisfies it.
type UserLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// TokenManager parses and issues the API's bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	users  UserLoader
	logger *zap.Logger
}

func NewTokenManager(secret string, ttl time.Duration, users UserLoader, logger *zap.Logger) (*TokenManager, error) {
	if len(secret) < minSecretLen {
		return nil, ErrShortSecret
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
		logger: logger,
	}, nil
}

// Issue mints a signed token for the given user.
func (tm *TokenManager) Issue(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Parse validates a token string and returns its subject user id.
func (tm *TokenManager) Parse(token string) (primitive.ObjectID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid {
		return primitive.NilObjectID, ErrBadToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return primitive.NilObjectID, ErrBadToken
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, ErrBadToken
	}
	return id, nil
}

// BearerToken extracts the token from the Authorization header, falling
// back to the access_token query parameter. The fallback exists for
// websocket clients, which cannot set headers from a browser.
func BearerToken(r *http.Request) (string, bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && token != "" {
			return token, true
		}
		return "", false
	}
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, true
	}
	return "", false
}

// ResolveUser authenticates a request outside the middleware chain. Used
// by the websocket endpoint, which authenticates during the upgrade
// handshake.
func (tm *TokenManager) ResolveUser(ctx context.Context, r *http.Request) (models.User, error) {
	token, ok := BearerToken(r)
	if !ok {
		return models.User{}, ErrMissingToken
	}
	id, err := tm.Parse(token)
	if err != nil {
		return models.User{}, err
	}
	lctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	u, err := tm.users.GetByID(lctx, id)
	if err != nil {
		return models.User{}, ErrUnknownUser
	}
	return u, nil
}

type ctxKey struct{}

// CurrentUser returns the authenticated user placed in the request context
// by LoadTokenUser.
func CurrentUser(r *http.Request) (models.User, bool) {
	u, ok := r.Context().Value(ctxKey{}).(models.User)
	return u, ok
}

// WithUser returns a request whose context carries u. Exported for handler
// tests.
func WithUser(r *http.Request, u models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
}

// LoadTokenUser resolves the request's bearer token to a user record and
// injects it into the context. Requests with no token, a bad token, or a
// token for a deleted user pass through unauthenticated; RequireSignedIn
// is the gate.
func (tm *TokenManager) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := tm.ResolveUser(r.Context(), r)
		if err != nil {
			if !errors.Is(err, ErrMissingToken) {
				tm.logger.Debug("rejected bearer token", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, WithUser(r, u))
	})
}

// RequireSignedIn rejects requests that have no authenticated user.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Error(w, http.StatusUnauthorized, "valid token required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
