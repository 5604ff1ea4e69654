package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"outreach/internal/models"
	"outreach/internal/service"
)

// ContactHandler serves the contact endpoints
type ContactHandler struct {
	service *service.ContactService
	log     *logrus.Entry
}

// NewContactHandler creates a new contact handler
func NewContactHandler(svc *service.ContactService, log *logrus.Entry) *ContactHandler {
	return &ContactHandler{service: svc, log: log}
}

// List handles GET /api/contacts?limit=&offset=&q=
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid limit")
		return
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", "invalid offset")
		return
	}

	page, err := h.service.List(r.Context(), service.ListQuery{Limit: limit, Offset: offset, Query: q.Get("q")})
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Create handles POST /api/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContactRequest
	if err := decode(r, &req); err != nil {
		h.log.WithError(err).Debug("invalid contact body")
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Get handles GET /api/contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Update handles PATCH /api/contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	var patch models.ContactPatch
	if err := decode(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	c, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Bulk handles POST /api/contacts/bulk
func (h *ContactHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req models.BulkRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.BulkImport(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if resp.Failed > 0 && resp.Failed == len(resp.Report) {
		writeJSON(w, http.StatusUnprocessableEntity, &ErrorEnvelope{
			Error:  "no row could be imported",
			Code:   "import_failed",
			Report: resp.Report,
		})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CleanupOrphanedCompanies handles POST /api/companies/cleanup-orphaned
func (h *ContactHandler) CleanupOrphanedCompanies(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CleanupOrphanedCompanies(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, models.CleanupResult{DeletedCount: n})
}

// WhatsAppInvite handles POST /api/demo/whatsapp-invite
func (h *ContactHandler) WhatsAppInvite(w http.ResponseWriter, r *http.Request) {
	var inv models.WhatsAppInvite
	if err := decode(r, &inv); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if err := h.service.QueueInvite(r.Context(), inv); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, models.InviteResponse{Success: true})
}

func contactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "validation", "invalid contact id")
		return 0, false
	}
	return id, true
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
