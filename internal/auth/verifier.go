// Package auth verifies actor credentials issued by the identity service.
// Token issuance, sessions, and password handling live there, not here —
// this backend only turns a bearer token into a domain.Actor.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Verifier validates HS256 access tokens carrying actor claims.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier. secret must be at least 32 characters
// for HS256 security; config validation enforces this.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// actorClaims extends standard JWT claims with role and department.
type actorClaims struct {
	jwt.RegisteredClaims
	Role         string `json:"role"`
	DepartmentID string `json:"department_id,omitempty"`
}

// Verify parses and validates an access token and returns the actor it
// describes. The subject is the actor's user ID.
func (v *Verifier) Verify(tokenString string) (domain.Actor, error) {
	if tokenString == "" {
		return domain.Actor{}, fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &actorClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("parse token: %w: %w", err, domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*actorClaims)
	if !ok || !token.Valid {
		return domain.Actor{}, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}

	if claims.Issuer != v.issuer {
		return domain.Actor{}, fmt.Errorf("invalid issuer %q: %w", claims.Issuer, domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("invalid subject: %w: %w", err, domain.ErrUnauthorized)
	}

	role := domain.UserRole(claims.Role)
	if !role.IsValid() {
		return domain.Actor{}, fmt.Errorf("invalid role %q: %w", claims.Role, domain.ErrUnauthorized)
	}

	actor := domain.Actor{ID: userID, Role: role}
	if claims.DepartmentID != "" {
		deptID, err := uuid.Parse(claims.DepartmentID)
		if err != nil {
			return domain.Actor{}, fmt.Errorf("invalid department_id: %w: %w", err, domain.ErrUnauthorized)
		}
		actor.DepartmentID = &deptID
	}

	return actor, nil
}
