package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const staffClaimsKey contextKey = "staffClaims"

var ErrNotStaff = errors.New("token does not grant staff access")

// StaffClaims is the token payload accepted by the stats API.
type StaffClaims struct {
	Username string `json:"username,omitempty"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// Auth restricts routes to staff tokens signed with a shared secret.
// An empty secret disables the check.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

func (a *Auth) Enabled() bool { return len(a.secret) > 0 }

// SignStaffToken issues an HS256 staff token valid for ttl.
func (a *Auth) SignStaffToken(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := StaffClaims{
		Username: username,
		IsStaff:  true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Auth) parse(tok string) (*StaffClaims, error) {
	t, err := jwt.ParseWithClaims(tok, &StaffClaims{}, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*StaffClaims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	if !c.IsStaff {
		return nil, ErrNotStaff
	}
	return c, nil
}

// RequireStaff rejects requests without a valid staff bearer token.
func (a *Auth) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token := extractBearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		claims, err := a.parse(token)
		if errors.Is(err, ErrNotStaff) {
			writeError(w, http.StatusForbidden, "staff access required")
			return
		}
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetStaffClaims returns the claims stored by RequireStaff.
func GetStaffClaims(ctx context.Context) (*StaffClaims, bool) {
	c, ok := ctx.Value(staffClaimsKey).(*StaffClaims)
	return c, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
