package handlers

import (
	"net/http"

	portfoliosvc "github.com/m2dev/codefolio/internal/services/portfolio"
	"github.com/m2dev/codefolio/internal/transport/http/dto"
	httperrors "github.com/m2dev/codefolio/internal/transport/http/errors"
)

type PortfolioHandler struct {
	service *portfoliosvc.Service
}

func NewPortfolioHandler(service *portfoliosvc.Service) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PORTFOLIO_UNAVAILABLE", "portfolio service is unavailable")
		return
	}

	aggregate, err := h.service.Get(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	res := dto.PortfolioResponse{
		Projects:    toProjectResponses(aggregate.Projects),
		Skills:      toSkillResponses(aggregate.Skills),
		Experiences: toExperienceResponses(aggregate.Experiences),
	}
	if aggregate.Profile != nil {
		profile := toProfileResponse(*aggregate.Profile)
		res.Profile = &profile
	}

	httperrors.Write(w, http.StatusOK, res)
}
