package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/models"
	"github.com/Wyattluber/berlinrpvc-adminpanel/internal/store"
)

func (h *Handler) handlePartners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	partners, err := h.store.ListPartnerServers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

func (h *Handler) handleSubServers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	subs, err := h.store.ListSubServers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) handleAdminPartners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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
	var partner models.PartnerServer
	if !decodeRequest(w, r, &partner) {
		return
	}
	partner.Name = strings.TrimSpace(partner.Name)
	partner.Website = strings.TrimSpace(partner.Website)
	if partner.Name == "" || partner.Website == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name and website are required")
		return
	}
	created, err := h.store.CreatePartnerServer(r.Context(), partner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleAdminPartner(w http.ResponseWriter, r *http.Request) {
	current, ok := requireSession(w, r)
	if !ok {
		return
	}
	partnerID := strings.TrimPrefix(r.URL.Path, "/api/admin/partners/")
	if !isValidUUID(partnerID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "partner id must be a UUID")
		return
	}

	switch r.Method {
	case http.MethodPut:
		if !h.requireModerator(w, r, current.UserID) {
			return
		}
		var partner models.PartnerServer
		if !decodeRequest(w, r, &partner) {
			return
		}
		partner.ID = partnerID
		updated, err := h.store.UpdatePartnerServer(r.Context(), partner)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "partner server not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if !h.requireAdmin(w, r, current.UserID) {
			return
		}
		if err := h.store.DeletePartnerServer(r.Context(), partnerID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "partner server not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleAdminSubServers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
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
	var sub models.SubServer
	if !decodeRequest(w, r, &sub) {
		return
	}
	sub.Name = strings.TrimSpace(sub.Name)
	if sub.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	created, err := h.store.CreateSubServer(r.Context(), sub)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleAdminSubServer(w http.ResponseWriter, r *http.Request) {
	current, ok := requireSession(w, r)
	if !ok {
		return
	}
	subID := strings.TrimPrefix(r.URL.Path, "/api/admin/subservers/")
	if !isValidUUID(subID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "sub-server id must be a UUID")
		return
	}

	switch r.Method {
	case http.MethodPut:
		if !h.requireModerator(w, r, current.UserID) {
			return
		}
		var sub models.SubServer
		if !decodeRequest(w, r, &sub) {
			return
		}
		sub.ID = subID
		updated, err := h.store.UpdateSubServer(r.Context(), sub)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "sub-server not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if !h.requireAdmin(w, r, current.UserID) {
			return
		}
		if err := h.store.DeleteSubServer(r.Context(), subID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "sub-server not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
