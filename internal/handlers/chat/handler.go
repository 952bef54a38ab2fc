package chat

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talluriprudhvi/llm-agents/internal/models"
	"github.com/talluriprudhvi/llm-agents/internal/repository"
	"github.com/talluriprudhvi/llm-agents/internal/services/agent"
)

const (
	timeoutDuration = 30 * time.Second
	defaultLimit    = 50
)

type ChatServicer interface {
	Chat(ctx context.Context, conversationID, message string) (models.Reply, error)
}

type historyReader interface {
	RecentMessages(ctx context.Context, conversationID string, n int) ([]models.Message, error)
}

type Handler struct {
	service ChatServicer
	history historyReader
}

func NewHandler(svc ChatServicer, history historyReader) *Handler {
	return &Handler{service: svc, history: history}
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message" binding:"required"`
}

// PostChat runs one conversational turn and returns the agent's reply.
func (h *Handler) PostChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message field is required"})
		return
	}

	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	reply, err := h.service.Chat(ctxWithTimeout, req.ConversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, agent.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, reply)
}

// GetMessages returns the recent messages of a conversation.
func (h *Handler) GetMessages(c *gin.Context) {
	id := c.Param("id")

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	ctxWithTimeout, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	msgs, err := h.history.RecentMessages(ctxWithTimeout, id, limit)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, msgs)
}
