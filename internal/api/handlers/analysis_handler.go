package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/interviewme/internal/analysis/facial"
	"github.com/yoockh/interviewme/internal/services"
)

// AnalysisHandler exposes the analyzers without persisting anything.
type AnalysisHandler struct {
	svc services.AnalysisService
}

func NewAnalysisHandler(svc services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

type SpeechRequest struct {
	Transcript      string `json:"transcript"`
	ReferenceAnswer string `json:"reference_answer"`
}

type FrameRequest struct {
	Landmarks facial.Frame `json:"landmarks"`
}

type FrameResponse struct {
	FaceDetected bool           `json:"face_detected"`
	Report       *facial.Report `json:"report,omitempty"`
}

func (h *AnalysisHandler) Speech(c *gin.Context) {
	var req SpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "AnalysisHandler.Speech", err)
		return
	}
	c.JSON(http.StatusOK, h.svc.AnalyzeSpeech(c.Request.Context(), "api", req.Transcript, req.ReferenceAnswer))
}

func (h *AnalysisHandler) Frame(c *gin.Context) {
	var req FrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "AnalysisHandler.Frame", err)
		return
	}
	r := h.svc.AnalyzeFrame(c.Request.Context(), req.Landmarks)
	c.JSON(http.StatusOK, FrameResponse{FaceDetected: r != nil, Report: r})
}
