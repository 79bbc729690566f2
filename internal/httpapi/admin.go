package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
)

type profileRequest struct {
	Username  string `json:"username"`
	DiscordID string `json:"discord_id"`
	RobloxID  string `json:"roblox_id"`
	AvatarURL string `json:"avatar_url"`
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := h.store.GetProfile(r.Context(), current.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "profile not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, profile)
	case http.MethodPut:
		var req profileRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		updated, err := h.store.UpdateProfile(r.Context(), models.Profile{
			UserID:    current.UserID,
			Username:  strings.TrimSpace(req.Username),
			DiscordID: strings.TrimSpace(req.DiscordID),
			RobloxID:  strings.TrimSpace(req.RobloxID),
			AvatarURL: strings.TrimSpace(req.AvatarURL),
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "profile not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type teamSettingsRequest struct {
	MeetingDay       string `json:"meeting_day"`
	MeetingTime      string `json:"meeting_time"`
	MeetingFrequency string `json:"meeting_frequency"`
	MeetingLocation  string `json:"meeting_location"`
	MeetingNotes     string `json:"meeting_notes"`
}

func (h *Handler) handleTeamSettings(w http.ResponseWriter, r *http.Request) {
	current, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !h.requireModerator(w, r, current.UserID) {
			return
		}
		settings, err := h.store.GetTeamSettings(r.Context())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusOK, nil)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, settings)
	case http.MethodPut:
		var req teamSettingsRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		result := h.gate.UpdateTeamSettings(r.Context(), current.UserID, models.TeamSettings{
			MeetingDay:       req.MeetingDay,
			MeetingTime:      req.MeetingTime,
			MeetingFrequency: req.MeetingFrequency,
			MeetingLocation:  req.MeetingLocation,
			MeetingNotes:     req.MeetingNotes,
		})
		writeGateResult(w, result)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type grantRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (h *Handler) handleRoles(w http.ResponseWriter, r *http.Request) {
	current, ok := requireSession(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !h.requireModerator(w, r, current.UserID) {
			return
		}
		assignments, err := h.store.ListRoleAssignments(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, assignments)
	case http.MethodPost:
		var req grantRoleRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		req.UserID = strings.TrimSpace(req.UserID)
		if !isValidUUID(req.UserID) {
			writeError(w, http.StatusBadRequest, "invalid_request", "user_id must be a UUID")
			return
		}
		role := strings.ToLower(strings.TrimSpace(req.Role))
		if role == "" {
			role = models.RoleModerator
		}
		result := h.gate.GrantRole(r.Context(), current.UserID, req.UserID, role)
		writeGateResult(w, result)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleRoleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	current, ok := requireSession(w, r)
	if !ok {
		return
	}
	targetID := strings.TrimPrefix(r.URL.Path, "/api/admin/roles/")
	if !isValidUUID(targetID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "user id must be a UUID")
		return
	}
	result := h.gate.RevokeRole(r.Context(), current.UserID, targetID)
	writeGateResult(w, result)
}
