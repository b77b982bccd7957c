package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/m2dev/codefolio/internal/domain/model"
	skillssvc "github.com/m2dev/codefolio/internal/services/skills"
	"github.com/m2dev/codefolio/internal/transport/http/dto"
	httperrors "github.com/m2dev/codefolio/internal/transport/http/errors"
)

type SkillHandler struct {
	service *skillssvc.Service
}

func NewSkillHandler(service *skillssvc.Service) *SkillHandler {
	return &SkillHandler{service: service}
}

func (h *SkillHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SKILLS_UNAVAILABLE", "skills service is unavailable")
		return
	}

	skills, err := h.service.List(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, toSkillResponses(skills))
}

func (h *SkillHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SKILLS_UNAVAILABLE", "skills service is unavailable")
		return
	}

	skill, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleSkillError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toSkillResponse(skill))
}

func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SKILLS_UNAVAILABLE", "skills service is unavailable")
		return
	}

	var req dto.SkillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	skill, err := h.service.Create(r.Context(), skillInput(req))
	if err != nil {
		handleSkillError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, toSkillResponse(skill))
}

func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SKILLS_UNAVAILABLE", "skills service is unavailable")
		return
	}

	var req dto.SkillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	skill, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), skillInput(req))
	if err != nil {
		handleSkillError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toSkillResponse(skill))
}

func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "SKILLS_UNAVAILABLE", "skills service is unavailable")
		return
	}

	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleSkillError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func skillInput(req dto.SkillRequest) model.SkillInput {
	return model.SkillInput{
		Name:     req.Name,
		Category: req.Category,
		Level:    req.Level,
		Icon:     req.Icon,
		Position: req.Position,
	}
}

func handleSkillError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, skillssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "skill not found")
	case errors.Is(err, skillssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
