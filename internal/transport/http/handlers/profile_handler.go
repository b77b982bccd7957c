package handlers

import (
	"errors"
	"net/http"

	"github.com/m2dev/codefolio/internal/domain/model"
	"github.com/m2dev/codefolio/internal/services/media"
	profilessvc "github.com/m2dev/codefolio/internal/services/profiles"
	"github.com/m2dev/codefolio/internal/transport/http/dto"
	httperrors "github.com/m2dev/codefolio/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilessvc.Service
}

func NewProfileHandler(service *profilessvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context())
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileRequest
	avatar, err := decodeWriteRequest(r, &req)
	if err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	profile, err := h.service.Update(r.Context(), model.ProfileInput{
		Name:     req.Name,
		Title:    req.Title,
		Bio:      req.Bio,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
		Website:  req.Website,
		Github:   req.Github,
		Linkedin: req.Linkedin,
	}, avatar)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(profile))
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilessvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "profile not found")
	case errors.Is(err, profilessvc.ErrValidation), errors.Is(err, media.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, media.ErrTooLarge):
		writeBadRequest(w, "IMAGE_TOO_LARGE", "image exceeds the size limit")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
