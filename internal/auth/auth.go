// Package auth resolves the acting identity from a bearer token. Absence
// of a token means the caller is anonymous; booking-level decisions live
// in the access package.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/roamly/travelbook/internal/access"
)

type contextKey string

const actorKey contextKey = "actor"

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type Auth struct {
	secret []byte
}

func New(secret []byte) *Auth {
	return &Auth{secret: secret}
}

// Authenticate rejects requests without a valid bearer token.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, err := a.resolve(r)
		if err != nil || !actor.IsAuthenticated() {
			http.Error(w, "invalid or missing token", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(withActor(r.Context(), actor)), ps)
	}
}

// OptionalAuth resolves the actor if a valid token is present and lets the
// request through either way.
func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, err := a.resolve(r)
		if err != nil {
			actor = access.Anonymous()
		}
		next(w, r.WithContext(withActor(r.Context(), actor)), ps)
	}
}

func (a *Auth) resolve(r *http.Request) (access.Actor, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return access.Anonymous(), nil
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return access.Anonymous(), fmt.Errorf("invalid authorization header format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return access.Anonymous(), fmt.Errorf("invalid token: %w", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return access.Anonymous(), fmt.Errorf("invalid user id in token: %w", err)
	}
	return access.Authenticated(userID), nil
}

// IssueToken signs a bearer token for the given account.
func (a *Auth) IssueToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func withActor(ctx context.Context, actor access.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the resolved actor, or anonymous when no
// middleware ran.
func ActorFromContext(ctx context.Context) access.Actor {
	if actor, ok := ctx.Value(actorKey).(access.Actor); ok {
		return actor
	}
	return access.Anonymous()
}
