package delivery

import (
	"net/http"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/google/uuid"
)

type MediaHandler struct {
	media     ports.MediaService
	requests  ports.RequestWorkflow
	log       *logger.ZapLogger
	maxUpload int64
}

func NewMediaHandler(media ports.MediaService, requests ports.RequestWorkflow, log *logger.ZapLogger, maxUpload int64) *MediaHandler {
	return &MediaHandler{
		media:     media,
		requests:  requests,
		log:       log,
		maxUpload: maxUpload,
	}
}

// GET /media/public/images/{projectId}
func (h *MediaHandler) ImagesByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out, err := h.media.ImagesByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /media/public/file/content/{mediaId}
func (h *MediaHandler) Content(w http.ResponseWriter, r *http.Request) {
	mediaID, err := uuidParam(r, "mediaId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out, err := h.media.EncodedContent(r.Context(), mediaID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /media/public/file/{projectId}
func (h *MediaHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out, err := h.media.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /media/{projectId}
func (h *MediaHandler) Add(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	up, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	m, err := h.media.Put(r.Context(), projectID, up)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// PUT /media/
func (h *MediaHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var in models.Media
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	m, err := h.media.Edit(r.Context(), in)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// PUT /media/{mediaId}
func (h *MediaHandler) ReplaceContent(w http.ResponseWriter, r *http.Request) {
	mediaID, err := uuidParam(r, "mediaId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	up, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	m, err := h.media.Replace(r.Context(), mediaID, &up)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DELETE /media/{projectId}/{mediaId}
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	mediaID, err := uuidParam(r, "mediaId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	m, err := h.media.Get(r.Context(), mediaID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if m.ProjectID == nil || *m.ProjectID != projectID {
		writeError(w, h.log, r, apperr.NotFound(apperr.ReasonMedia, mediaID))
		return
	}
	if _, err := h.media.Delete(r.Context(), mediaID); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Media deleted successfully."))
}

// GET /media/request/{requestId}/{projectId}
func (h *MediaHandler) ForRequest(w http.ResponseWriter, r *http.Request) {
	requestID, projectID, err := h.requestInProject(r)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out, err := h.requests.ListForRequest(r.Context(), requestID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "request media fetched",
		Fields: map[string]any{
			"requestID": requestID.String(),
			"projectID": projectID.String(),
			"added":     len(out.Added),
			"removed":   len(out.Removed),
		},
	})
	writeJSON(w, http.StatusOK, out)
}

// POST /media/request/remove/{requestId}/{mediaId}/{projectId}
func (h *MediaHandler) StageRemoval(w http.ResponseWriter, r *http.Request) {
	requestID, _, err := h.requestInProject(r)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	mediaID, err := uuidParam(r, "mediaId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	m, err := h.requests.ProposeRemove(r.Context(), requestID, mediaID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// DELETE /media/request/withdraw/{requestId}/{mediaId}/{projectId}
func (h *MediaHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	requestID, _, err := h.requestInProject(r)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	mediaID, err := uuidParam(r, "mediaId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if err := h.requests.Withdraw(r.Context(), requestID, mediaID); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /media/public/request/add/{requestId}/{projectId}
func (h *MediaHandler) StageAddition(w http.ResponseWriter, r *http.Request) {
	requestID, _, err := h.requestInProject(r)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	up, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	m, err := h.requests.ProposeAdd(r.Context(), requestID, up)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// requestInProject resolves the {requestId} and {projectId} params and
// answers not found when the request was filed against another project.
func (h *MediaHandler) requestInProject(r *http.Request) (requestID, projectID uuid.UUID, err error) {
	if requestID, err = uuidParam(r, "requestId"); err != nil {
		return
	}
	if projectID, err = uuidParam(r, "projectId"); err != nil {
		return
	}
	req, err := h.requests.Get(r.Context(), requestID)
	if err != nil {
		return
	}
	if req.ProjectID != projectID {
		err = apperr.NotFound(apperr.ReasonRequest, req.ID)
	}
	return
}
