package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
)

type applicationRequest struct {
	DiscordID     string             `json:"discord_id"`
	RobloxID      string             `json:"roblox_id"`
	RobloxUser    string             `json:"roblox_username"`
	Age           int                `json:"age"`
	ActivityLevel int                `json:"activity_level"`
	Experience    string             `json:"admin_experience"`
	OtherServers  string             `json:"other_servers"`
	RuleAnswers   models.RuleAnswers `json:"rule_answers"`
}

func (h *Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submitApplication(w, r)
	case http.MethodGet:
		h.listApplications(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) submitApplication(w http.ResponseWriter, r *http.Request) {
	current, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req applicationRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	req.DiscordID = strings.TrimSpace(req.DiscordID)
	req.RobloxID = strings.TrimSpace(req.RobloxID)
	req.RobloxUser = strings.TrimSpace(req.RobloxUser)
	if req.DiscordID == "" || req.RobloxID == "" || req.RobloxUser == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "discord_id, roblox_id, and roblox_username are required")
		return
	}
	if req.Age <= 0 || req.ActivityLevel <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "age and activity_level must be positive")
		return
	}
	if !ruleAnswersComplete(req.RuleAnswers) {
		writeError(w, http.StatusBadRequest, "invalid_request", "all rule answers are required")
		return
	}

	season, err := h.store.GetActiveSeason(r.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoActiveSeason) {
			writeError(w, http.StatusConflict, "no_active_season", "applications are currently closed")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	exists, err := h.store.HasApplication(r.Context(), current.UserID, season.SeasonID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if exists {
		writeError(w, http.StatusConflict, "already_applied", "an application for this season already exists")
		return
	}

	app, err := h.store.CreateApplication(r.Context(), store.ApplicationInput{
		UserID:        current.UserID,
		DiscordID:     req.DiscordID,
		RobloxID:      req.RobloxID,
		RobloxUser:    req.RobloxUser,
		Age:           req.Age,
		ActivityLevel: req.ActivityLevel,
		Experience:    req.Experience,
		OtherServers:  req.OtherServers,
		RuleAnswers:   req.RuleAnswers,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "already_applied", "an application for this season already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	current, ok := requireSession(w, r)
	if !ok {
		return
	}
	if !h.requireModerator(w, r, current.UserID) {
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	apps, err := h.store.ListApplications(r.Context(), status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *Handler) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	current, ok := requireSession(w, r)
	if !ok {
		return
	}
	history, err := h.store.ListUserApplications(r.Context(), current.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, history)
}

type reviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) handleApplicationAction(w http.ResponseWriter, r *http.Request) {
	current, ok := requireSession(w, r)
	if !ok {
		return
	}
	applicationID := strings.TrimPrefix(r.URL.Path, "/api/admin/applications/")
	if !isValidUUID(applicationID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "application id must be a UUID")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req reviewRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		result := h.gate.UpdateApplicationStatus(r.Context(), current.UserID, applicationID, req.Status, req.Notes)
		writeGateResult(w, result)
	case http.MethodDelete:
		result := h.gate.DeleteApplication(r.Context(), current.UserID, applicationID)
		writeGateResult(w, result)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func ruleAnswersComplete(answers models.RuleAnswers) bool {
	fields := []string{
		answers.FRP, answers.VDM, answers.TaschenRP, answers.ServerAge,
		answers.Bodycam, answers.FriendRule, answers.Situation,
	}
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
