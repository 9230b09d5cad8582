package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/interviewme/internal/services"
	"github.com/yoockh/interviewme/internal/utils"
)

type RecordingHandler struct {
	svc services.RecordingService
}

func NewRecordingHandler(svc services.RecordingService) *RecordingHandler {
	return &RecordingHandler{svc: svc}
}

func (h *RecordingHandler) Upload(c *gin.Context) {
	const op = "RecordingHandler.Upload"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxRecordingBytes+(1<<20))
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is required (max 50 MB)", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read file", err))
		return
	}
	defer f.Close()

	rec, err := h.svc.Upload(c.Request.Context(), services.UploadInput{
		UserID:      userID,
		SessionID:   c.Param("session_id"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *RecordingHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": out})
}

func (h *RecordingHandler) SignedURL(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	out, err := h.svc.SignedURL(c.Request.Context(), userID, c.Param("recording_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
