package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/services/media"
	projectssvc "github.com/m2dev/codefolio/internal/services/projects"
	"github.com/m2dev/codefolio/internal/transport/http/dto"
	httperrors "github.com/m2dev/codefolio/internal/transport/http/errors"
)

type ProjectHandler struct {
	service *projectssvc.Service
}

func NewProjectHandler(service *projectssvc.Service) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROJECTS_UNAVAILABLE", "projects service is unavailable")
		return
	}

	projects, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, toProjectResponses(projects))
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROJECTS_UNAVAILABLE", "projects service is unavailable")
		return
	}

	project, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleProjectError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROJECTS_UNAVAILABLE", "projects service is unavailable")
		return
	}

	var req dto.ProjectRequest
	image, err := decodeWriteRequest(r, &req)
	if err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	project, err := h.service.Create(r.Context(), projectInput(req), image)
	if err != nil {
		handleProjectError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROJECTS_UNAVAILABLE", "projects service is unavailable")
		return
	}

	var req dto.ProjectRequest
	image, err := decodeWriteRequest(r, &req)
	if err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	project, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), projectInput(req), image)
	if err != nil {
		handleProjectError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProjectResponse(project))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROJECTS_UNAVAILABLE", "projects service is unavailable")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleProjectError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func projectInput(req dto.ProjectRequest) model.ProjectInput {
	return model.ProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Technologies: req.Technologies,
		ImageURL:     req.ImageURL,
		ProjectURL:   req.ProjectURL,
		GithubURL:    req.GithubURL,
		Featured:     req.Featured,
		Position:     req.Position,
	}
}

func handleProjectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, projectssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "project not found")
	case errors.Is(err, projectssvc.ErrValidation), errors.Is(err, media.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, media.ErrTooLarge):
		writeBadRequest(w, "IMAGE_TOO_LARGE", "image exceeds the size limit")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
