package delivery

import (
	"net/http"

	"github.com/BogdanParamon/project-portofolio-management-be/internal/models"
	"github.com/BogdanParamon/project-portofolio-management-be/internal/ports"
	"github.com/Vovarama1992/go-utils/logger"
)

// ProjectHandler serves the thin CRUD surface around the core: projects,
// collaborators and links.
type ProjectHandler struct {
	projects      ports.ProjectService
	collaborators ports.CollaboratorService
	links         ports.LinkService
	log           *logger.ZapLogger
}

func NewProjectHandler(
	projects ports.ProjectService,
	collaborators ports.CollaboratorService,
	links ports.LinkService,
	log *logger.ZapLogger,
) *ProjectHandler {
	return &ProjectHandler{
		projects:      projects,
		collaborators: collaborators,
		links:         links,
		log:           log,
	}
}

// POST /project/
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.Project
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	p, err := h.projects.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GET /project/
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.projects.List(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /project/{projectId}
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	p, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PUT /project/{projectId}
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	var in models.Project
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	p, err := h.projects.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DELETE /project/{projectId}
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type collaboratorBody struct {
	Name string `json:"name"`
}

// POST /collaborator/
func (h *ProjectHandler) CreateCollaborator(w http.ResponseWriter, r *http.Request) {
	var body collaboratorBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	c, err := h.collaborators.Create(r.Context(), body.Name)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GET /collaborator/{collaboratorId}
func (h *ProjectHandler) GetCollaborator(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "collaboratorId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	c, err := h.collaborators.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DELETE /collaborator/{collaboratorId}
func (h *ProjectHandler) DeleteCollaborator(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "collaboratorId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if err := h.collaborators.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type membershipBody struct {
	Role string `json:"role"`
}

// POST /project/{projectId}/collaborator/{collaboratorId}
func (h *ProjectHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	collaboratorID, err := uuidParam(r, "collaboratorId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	var body membershipBody
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, h.log, r, err)
			return
		}
	}
	pc, err := h.collaborators.AddToProject(r.Context(), projectID, collaboratorID, body.Role)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pc)
}

// GET /project/{projectId}/collaborator
func (h *ProjectHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out, err := h.collaborators.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /link/
func (h *ProjectHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	var in models.Link
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	l, err := h.links.Add(r.Context(), in)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// PUT /link/edit
func (h *ProjectHandler) EditLink(w http.ResponseWriter, r *http.Request) {
	var in models.Link
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	l, err := h.links.Edit(r.Context(), in)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// GET /link/{projectId}
func (h *ProjectHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "projectId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	out, err := h.links.ListByProject(r.Context(), projectID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DELETE /link/{linkId}
func (h *ProjectHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "linkId")
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if err := h.links.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
