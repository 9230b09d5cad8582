package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/interviewme/internal/services"
)

type QuestionHandler struct {
	svc services.QuestionService
}

func NewQuestionHandler(svc services.QuestionService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

type CreateQuestionRequest struct {
	Prompt          string          `json:"prompt" binding:"required"`
	ReferenceAnswer string          `json:"reference_answer" binding:"required"`
	Category        string          `json:"category"`
	Difficulty      string          `json:"difficulty"`
	Tags            []string        `json:"tags"`
	Rubric          json.RawMessage `json:"rubric"`
}

func (h *QuestionHandler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": out})
}

func (h *QuestionHandler) Get(c *gin.Context) {
	q, err := h.svc.Get(c.Request.Context(), c.Param("question_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "QuestionHandler.Create", err)
		return
	}
	q, err := h.svc.Create(c.Request.Context(), services.CreateQuestionInput{
		Prompt:          req.Prompt,
		ReferenceAnswer: req.ReferenceAnswer,
		Category:        req.Category,
		Difficulty:      req.Difficulty,
		Tags:            req.Tags,
		Rubric:          req.Rubric,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}
