package handlers

import (
	"errors"
	"net/http"

	chatsvc "github.com/m2dev/codefolio/internal/services/chat"
	"github.com/m2dev/codefolio/internal/transport/http/dto"
	httperrors "github.com/m2dev/codefolio/internal/transport/http/errors"
)

type ChatHandler struct {
	service *chatsvc.Service
}

func NewChatHandler(service *chatsvc.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CHAT_UNAVAILABLE", "chat service is unavailable")
		return
	}

	var req dto.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	history := make([]chatsvc.Message, 0, len(req.History))
	for _, turn := range req.History {
		history = append(history, chatsvc.Message{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	reply, err := h.service.Reply(r.Context(), history, req.Message)
	if err != nil {
		if errors.Is(err, chatsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ChatResponse{Reply: reply})
}
