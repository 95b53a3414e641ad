package delivery

import (
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, hMedia *MediaHandler, hRequest *RequestHandler, hProject *ProjectHandler) {

	// media
	r.Route("/media", func(r chi.Router) {
		r.Get("/public/images/{projectId}", hMedia.ImagesByProject)
		r.Get("/public/file/content/{mediaId}", hMedia.Content)
		r.Get("/public/file/{projectId}", hMedia.ListByProject)
		r.Put("/public/request/add/{requestId}/{projectId}", hMedia.StageAddition)

		r.Post("/{projectId}", hMedia.Add)
		r.Put("/", hMedia.Edit)
		r.Put("/{mediaId}", hMedia.ReplaceContent)
		r.Delete("/{projectId}/{mediaId}", hMedia.Delete)

		r.Get("/request/{requestId}/{projectId}", hMedia.ForRequest)
		r.Post("/request/remove/{requestId}/{mediaId}/{projectId}", hMedia.StageRemoval)
		r.Delete("/request/withdraw/{requestId}/{mediaId}/{projectId}", hMedia.Withdraw)
	})

	// change requests
	r.Route("/request", func(r chi.Router) {
		r.Post("/project/{projectId}", hRequest.File)
		r.Get("/project/{projectId}", hRequest.ListForProject)
		r.Get("/{requestId}", hRequest.Get)
		r.Post("/{requestId}/approve", hRequest.Approve)
		r.Post("/{requestId}/reject", hRequest.Reject)
	})

	// projects
	r.Route("/project", func(r chi.Router) {
		r.Post("/", hProject.Create)
		r.Get("/", hProject.List)
		r.Get("/{projectId}", hProject.Get)
		r.Put("/{projectId}", hProject.Update)
		r.Delete("/{projectId}", hProject.Delete)
		r.Get("/{projectId}/collaborator", hProject.ListCollaborators)
		r.Post("/{projectId}/collaborator/{collaboratorId}", hProject.AddCollaborator)
	})

	r.Route("/collaborator", func(r chi.Router) {
		r.Post("/", hProject.CreateCollaborator)
		r.Get("/{collaboratorId}", hProject.GetCollaborator)
		r.Delete("/{collaboratorId}", hProject.DeleteCollaborator)
	})

	r.Route("/link", func(r chi.Router) {
		r.Post("/", hProject.AddLink)
		r.Put("/edit", hProject.EditLink)
		r.Get("/{projectId}", hProject.ListLinks)
		r.Delete("/{linkId}", hProject.DeleteLink)
	})
}
