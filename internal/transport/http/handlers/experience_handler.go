package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m2dev/codefolio/internal/domain/model"
	experiencessvc "github.com/m2dev/codefolio/internal/services/experiences"
	"github.com/m2dev/codefolio/internal/transport/http/dto"
	httperrors "github.com/m2dev/codefolio/internal/transport/http/errors"
)

type ExperienceHandler struct {
	service *experiencessvc.Service
}

func NewExperienceHandler(service *experiencessvc.Service) *ExperienceHandler {
	return &ExperienceHandler{service: service}
}

func (h *ExperienceHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "EXPERIENCES_UNAVAILABLE", "experiences service is unavailable")
		return
	}

	experiences, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, toExperienceResponses(experiences))
}

func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "EXPERIENCES_UNAVAILABLE", "experiences service is unavailable")
		return
	}

	experience, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleExperienceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toExperienceResponse(experience))
}

func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "EXPERIENCES_UNAVAILABLE", "experiences service is unavailable")
		return
	}

	var req dto.ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	experience, err := h.service.Create(r.Context(), experienceInput(req))
	if err != nil {
		handleExperienceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toExperienceResponse(experience))
}

func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "EXPERIENCES_UNAVAILABLE", "experiences service is unavailable")
		return
	}

	var req dto.ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	experience, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), experienceInput(req))
	if err != nil {
		handleExperienceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toExperienceResponse(experience))
}

func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "EXPERIENCES_UNAVAILABLE", "experiences service is unavailable")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleExperienceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func experienceInput(req dto.ExperienceRequest) model.ExperienceInput {
	return model.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Current:     req.Current,
		Description: req.Description,
		Position:    req.Position,
	}
}

func handleExperienceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, experiencessvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "experience not found")
	case errors.Is(err, experiencessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
