package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/expoprize/prizewheel-go/internal/api/apierr"
	"github.com/expoprize/prizewheel-go/internal/model"
	"github.com/expoprize/prizewheel-go/internal/services/registration"
)

type contextKey string

const spinTokenContextKey contextKey = "spin_token"

// SpinAuth requires a valid spin token minted by collaborator code
// verification, and that the token was minted for the company in the
// request path. The token is validated but not consumed here; the spin
// handler consumes it so a failed request does not burn the token.
func SpinAuth(registrationService *registration.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			spinToken, err := registrationService.ValidateToken(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), spinTokenContextKey, spinToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the spin token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("spin_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSpinToken returns the validated spin token from the request context
func GetSpinToken(ctx context.Context) *registration.SpinToken {
	token, _ := ctx.Value(spinTokenContextKey).(*registration.SpinToken)
	return token
}

// MustGetSpinToken returns the validated spin token or panics
func MustGetSpinToken(ctx context.Context) *registration.SpinToken {
	token := GetSpinToken(ctx)
	if token == nil {
		panic("no spin token in context - auth middleware not applied?")
	}
	return token
}

// RequireTokenCompany rejects tokens minted for a different company
func RequireTokenCompany(token *registration.SpinToken, companyID model.CompanyID) error {
	if token.CompanyID != companyID {
		return model.ErrInvalidToken
	}
	return nil
}
