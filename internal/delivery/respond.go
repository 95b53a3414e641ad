package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/apperr"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type errorBody struct {
	Code    apperr.Kind   `json:"code"`
	Reason  apperr.Reason `json:"reason"`
	Message string        `json:"message"`
}

// StatusOf maps an error kind to the HTTP status the API exposes.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindConflict:
		if errors.Is(err, apperr.ErrDuplicatePath) {
			return http.StatusForbidden
		}
		return http.StatusConflict
	case apperr.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the mapped status. Internal errors are logged
// and reported with a generic message only.
func writeError(w http.ResponseWriter, log *logger.ZapLogger, r *http.Request, err error) {
	status := StatusOf(err)
	body := errorBody{Code: apperr.KindInternal, Reason: apperr.ReasonUnknown, Message: "internal error"}
	if e, ok := apperr.As(err); ok && status != http.StatusInternalServerError {
		body = errorBody{Code: e.Kind, Reason: e.Reason, Message: e.Message}
	}
	if status == http.StatusInternalServerError {
		log.Log(logger.LogEntry{
			Level:   "error",
			Message: "request failed",
			Error:   err,
			Fields:  map[string]any{"method": r.Method, "path": r.URL.Path},
		})
	}
	writeJSON(w, status, body)
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, apperr.ErrNullID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.KindInvalidArgument, apperr.ReasonNullID, "invalid %s %q", name, raw)
	}
	return id, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.New(apperr.KindInvalidArgument, apperr.ReasonNullField, "invalid json: %v", err)
	}
	return nil
}

// readUpload pulls the "file" part and the optional "name" field out of a
// multipart form limited to maxBytes.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (models.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return models.Upload{}, apperr.New(apperr.KindInvalidArgument, apperr.ReasonNullField, "invalid multipart form: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return models.Upload{}, apperr.NullField("file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.Upload{}, apperr.New(apperr.KindInvalidArgument, apperr.ReasonNullField, "read file: %v", err)
	}
	return models.Upload{
		Name:     r.FormValue("name"),
		Filename: header.Filename,
		Content:  data,
	}, nil
}
