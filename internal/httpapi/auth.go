package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/session"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
)

type authContextKey struct{}

type authInfo struct {
	Session models.Session
}

// AuthMiddleware resolves the bearer token to a session and stores it in the
// request context. Public endpoints pass through untouched; protected ones
// get a 401 before their handler runs.
func AuthMiddleware(sessions *session.Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}
		token := sessionToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session token")
			return
		}
		current, err := sessions.Current(r.Context(), token)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid session")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		ctx := context.WithValue(r.Context(), authContextKey{}, authInfo{Session: current})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(ctx context.Context) (models.Session, bool) {
	value := ctx.Value(authContextKey{})
	if value == nil {
		return models.Session{}, false
	}
	info, ok := value.(authInfo)
	if !ok {
		return models.Session{}, false
	}
	return info.Session, true
}

func requireSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	current, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return models.Session{}, false
	}
	return current, true
}

func sessionToken(r *http.Request) string {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get("X-Session-ID"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func isPublicEndpoint(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics":
		return true
	case "/api/auth/signup", "/api/auth/login", "/api/auth/logout", "/api/auth/reset":
		return true
	case "/api/partners", "/api/subservers", "/api/route-guard":
		return true
	default:
		return r.Method == http.MethodOptions
	}
}
