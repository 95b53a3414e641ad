package delivery

import (
	"net/http"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

type RequestHandler struct {
	requests ports.RequestWorkflow
	log      *logger.ZapLogger
}

func NewRequestHandler(requests ports.RequestWorkflow, log *logger.ZapLogger) *RequestHandler {
	return &RequestHandler{
		requests: requests,
		log:      log,
	}
}

type fileRequestBody struct {
	CollaboratorID uuid.UUID `json:"collaboratorId"`
	Description    string    `json:"description"`
}

// POST /request/project/{projectId}
func (h *RequestHandler) File(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	var body fileRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	req, err := h.requests.File(r.Context(), projectID, body.CollaboratorID, body.Description)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// GET /request/project/{projectId}
func (h *RequestHandler) ListForProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out, err := h.requests.ListForProject(r.Context(), projectID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /request/{requestId}
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuidParam(r, "requestId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	req, err := h.requests.Get(r.Context(), requestID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// POST /request/{requestId}/approve
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, models.Approve)
}

// POST /request/{requestId}/reject
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, models.Reject)
}

func (h *RequestHandler) resolve(w http.ResponseWriter, r *http.Request, decision models.Decision) {
	requestID, err := uuidParam(r, "requestId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	req, err := h.requests.Resolve(r.Context(), requestID, decision)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
