package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/interviewme/internal/models"
	"github.com/yoockh/interviewme/internal/queue"
	"github.com/yoockh/interviewme/internal/services"
	"github.com/yoockh/interviewme/internal/utils"
)

type AttemptHandler struct {
	svc services.AttemptService
}

func NewAttemptHandler(svc services.AttemptService) *AttemptHandler {
	return &AttemptHandler{svc: svc}
}

type SubmitAnswerRequest struct {
	Transcript string `json:"transcript"`
}

type AudioAcceptedResponse struct {
	JobID     string `json:"job_id"`
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

func (h *AttemptHandler) Submit(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "AttemptHandler.Submit", err)
		return
	}

	a, err := h.svc.Submit(c.Request.Context(), services.SubmitInput{
		UserID:     userID,
		SessionID:  c.Param("session_id"),
		Transcript: req.Transcript,
		Source:     models.SourceText,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// SubmitAudio accepts multipart field "audio" plus an optional "language"
// and answers 202; the result arrives on the session's frame stream.
func (h *AttemptHandler) SubmitAudio(c *gin.Context) {
	const op = "AttemptHandler.SubmitAudio"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, queue.MaxAudioBytes+(1<<20))
	fh, err := c.FormFile("audio")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file is required (max 10 MB)", err))
		return
	}
	if fh.Size > queue.MaxAudioBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio exceeds 10 MB", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read audio", err))
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, queue.MaxAudioBytes+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read audio", err))
		return
	}

	sessionID := c.Param("session_id")
	jobID, err := h.svc.EnqueueAudio(c.Request.Context(), services.AudioInput{
		UserID:      userID,
		SessionID:   sessionID,
		ContentType: fh.Header.Get("Content-Type"),
		Language:    c.PostForm("language"),
		Audio:       audio,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, AudioAcceptedResponse{JobID: jobID, SessionID: sessionID, Status: "queued"})
}

func (h *AttemptHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": out})
}
