package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swim360/swim360-backend/internal/dto"
	"github.com/swim360/swim360-backend/internal/http/handlers/common"
	"github.com/swim360/swim360-backend/internal/service"
)

// ChatHandler предоставляет HTTP слой личных сообщений.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler создаёт хэндлер.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// SendMessage обрабатывает POST /chat/messages.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.SendMessageRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	recipientID, err := req.ParseRecipientID()
	if err != nil {
		common.RespondBadRequest(c, "recipient_id must be a valid UUID")
		return
	}

	message, err := h.chat.SendMessage(c.Request.Context(), userID, recipientID, req.Text)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, message)
}

// ListConversations обрабатывает GET /chat/conversations.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	conversations, err := h.chat.ListConversations(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, conversations)
}

// ListMessages обрабатывает GET /chat/conversations/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	conversationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	messages, err := h.chat.ListMessages(c.Request.Context(), conversationID, userID, limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, messages)
}
