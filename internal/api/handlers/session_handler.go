package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/interviewme/internal/services"
)

type SessionHandler struct {
	svc services.SessionService
}

func NewSessionHandler(svc services.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type StartSessionRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
}

type StartSessionResponse struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func (h *SessionHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "SessionHandler.Start", err)
		return
	}

	sess, err := h.svc.Start(c.Request.Context(), userID, req.QuestionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StartSessionResponse{
		SessionID:  sess.SessionID,
		QuestionID: sess.QuestionID,
		Status:     sess.Status,
		CreatedAt:  sess.CreatedAt.Format(time.RFC3339),
	})
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.svc.Authorize(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) End(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, err := h.svc.End(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}
