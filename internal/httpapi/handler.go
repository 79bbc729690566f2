package httpapi

import (
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"strings"
	"time"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/authz"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/session"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/usercount"

	"github.com/google/uuid"
)

type Handler struct {
	store    store.Store
	sessions *session.Manager
	resolver *authz.Resolver
	gate     *authz.Gate
	counts   *usercount.Cache
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewHandler(st store.Store, sessions *session.Manager, resolver *authz.Resolver, gate *authz.Gate, counts *usercount.Cache) *Handler {
	return &Handler{store: st, sessions: sessions, resolver: resolver, gate: gate, counts: counts}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", expvar.Handler())
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/route-guard", h.handleRouteGuard)
	mux.HandleFunc("/api/auth/signup", h.handleSignup)
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/auth/logout", h.handleLogout)
	mux.HandleFunc("/api/auth/me", h.handleMe)
	mux.HandleFunc("/api/auth/reset", h.handleAuthReset)
	mux.HandleFunc("/api/applications", h.handleApplications)
	mux.HandleFunc("/api/applications/mine", h.handleMyApplications)
	mux.HandleFunc("/api/admin/applications/", h.handleApplicationAction)
	mux.HandleFunc("/api/partners", h.handlePartners)
	mux.HandleFunc("/api/subservers", h.handleSubServers)
	mux.HandleFunc("/api/admin/partners", h.handleAdminPartners)
	mux.HandleFunc("/api/admin/partners/", h.handleAdminPartner)
	mux.HandleFunc("/api/admin/subservers", h.handleAdminSubServers)
	mux.HandleFunc("/api/admin/subservers/", h.handleAdminSubServer)
	mux.HandleFunc("/api/profile", h.handleProfile)
	mux.HandleFunc("/api/admin/team-settings", h.handleTeamSettings)
	mux.HandleFunc("/api/admin/roles", h.handleRoles)
	mux.HandleFunc("/api/admin/roles/", h.handleRoleDelete)
	mux.HandleFunc("/api/admin/stats/users", h.handleUserCount)
	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.sessions.Degraded() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleRouteGuard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" || !strings.HasPrefix(path, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "path is required")
		return
	}

	authenticated := false
	if token := sessionToken(r); token != "" {
		if _, err := h.sessions.Current(r.Context(), token); err == nil {
			authenticated = true
		}
	}
	writeJSON(w, http.StatusOK, ResolveRoute(path, authenticated))
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req credentialsRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid_request", "a valid email is required")
		return
	}

	user, err := h.sessions.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, "weak_password", err.Error())
		case errors.Is(err, store.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email_taken", "email already registered")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"user_id": user.UserID,
		"status":  "pending confirmation",
	})
}

type loginResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req credentialsRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	current, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		SessionID: current.SessionID,
		UserID:    current.UserID,
		Email:     current.Email,
		ExpiresAt: current.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.sessions.SignOut(r.Context(), sessionToken(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	current, ok := requireSession(w, r)
	if !ok {
		return
	}

	role, err := h.resolver.RoleOf(r.Context(), current.UserID)
	if err != nil {
		// Role display degrades to none; the gate re-checks on every write.
		role = models.RoleNone
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": current.SessionID,
		"user_id":    current.UserID,
		"email":      current.Email,
		"expires_at": current.ExpiresAt.Format(time.RFC3339),
		"role":       role,
	})
}

func (h *Handler) handleAuthReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := h.sessions.Reset(r.Context(), sessionToken(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	h.counts.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUserCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	current, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !h.requireModerator(w, r, current.UserID) {
		return
	}
	writeJSON(w, http.StatusOK, h.counts.Get(r.Context()))
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request, userID string) bool {
	isAdmin, err := h.resolver.IsAdmin(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusForbidden, "access_denied", "role check unavailable")
		return false
	}
	if !isAdmin {
		writeError(w, http.StatusForbidden, "access_denied", "admin role required")
		return false
	}
	return true
}

func (h *Handler) requireModerator(w http.ResponseWriter, r *http.Request, userID string) bool {
	isModerator, err := h.resolver.IsModerator(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusForbidden, "access_denied", "role check unavailable")
		return false
	}
	if !isModerator {
		writeError(w, http.StatusForbidden, "access_denied", "moderator role required")
		return false
	}
	return true
}

// writeGateResult maps a gate outcome to the wire: denials are 403, the
// result body is returned either way so the client can show the message.
func writeGateResult(w http.ResponseWriter, result authz.ActionResult) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusForbidden
	}
	writeJSON(w, status, result)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
