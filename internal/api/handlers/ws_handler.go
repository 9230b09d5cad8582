package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/interviewme/internal/analysis/facial"
	"github.com/yoockh/interviewme/internal/events"
	"github.com/yoockh/interviewme/internal/observe"
	"github.com/yoockh/interviewme/internal/services"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsPingEvery    = 25 * time.Second
	wsMaxMessage   = 1 << 20
)

// WSHandler serves the live landmark feed of a practice session.
type WSHandler struct {
	sessions services.SessionService
	analysis services.AnalysisService
	events   events.Subscriber // optional
	metrics  *observe.Metrics  // optional
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

type WSDeps struct {
	Sessions       services.SessionService
	Analysis       services.AnalysisService
	Events         events.Subscriber
	Metrics        *observe.Metrics
	Logger         *logrus.Logger
	AllowedOrigins []string // empty allows any origin
}

func NewWSHandler(d WSDeps) *WSHandler {
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	allowed := map[string]bool{}
	for _, o := range d.AllowedOrigins {
		allowed[o] = true
	}
	return &WSHandler{
		sessions: d.Sessions,
		analysis: d.Analysis,
		events:   d.Events,
		metrics:  d.Metrics,
		log:      d.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return len(allowed) == 0 || allowed[r.Header.Get("Origin")]
			},
		},
	}
}

type wsClientMsg struct {
	Type      string       `json:"type"` // frame|end
	Landmarks facial.Frame `json:"landmarks"`
}

type wsFacialMsg struct {
	Type         string         `json:"type"`
	FaceDetected bool           `json:"face_detected"`
	Report       *facial.Report `json:"report"`
}

type wsSummaryMsg struct {
	Type    string         `json:"type"`
	Summary facial.Summary `json:"summary"`
}

type wsErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.c.WriteJSON(v)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
}

func (h *WSHandler) FrameStream(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if _, err := h.sessions.Authorize(c.Request.Context(), userID, sessionID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader already answered
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.ActiveFrameStreams.Add(context.Background(), 1)
		defer h.metrics.ActiveFrameStreams.Add(context.Background(), -1)
	}

	log := h.log.WithFields(logrus.Fields{"session_id": sessionID, "user_id": userID})
	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go h.forward(ctx, wc, sessionID, log)

	fs := h.analysis.NewFrameStream()
	endedByClient := h.readFrames(ctx, conn, wc, fs)

	sum := fs.Summary()
	if sum.Frames > 0 {
		// the request context is gone once the client disconnects
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := h.sessions.SaveFacialSummary(sctx, sessionID, sum); err != nil {
			log.WithError(err).Error("failed to save facial summary")
		}
		scancel()
	}
	log.WithFields(logrus.Fields{
		"frames":         sum.Frames,
		"faces_detected": sum.FacesDetected,
	}).Info("frame stream closed")

	if endedByClient {
		_ = wc.writeJSON(wsSummaryMsg{Type: "summary", Summary: sum})
		wc.mu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
			time.Now().Add(wsWriteTimeout))
		wc.mu.Unlock()
	}
}

// readFrames owns fs. It returns true when the client sent "end".
func (h *WSHandler) readFrames(ctx context.Context, conn *websocket.Conn, wc *wsConn, fs *services.FrameStream) bool {
	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return false
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var msg wsClientMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = wc.writeJSON(wsErrorMsg{Type: "error", Code: "INVALID_ARGUMENT", Message: "invalid json"})
			continue
		}

		switch msg.Type {
		case "frame":
			report, detected := fs.Process(ctx, msg.Landmarks)
			if err := wc.writeJSON(wsFacialMsg{Type: "facial", FaceDetected: detected, Report: report}); err != nil {
				return false
			}
		case "end":
			return true
		default:
			_ = wc.writeJSON(wsErrorMsg{Type: "error", Code: "INVALID_ARGUMENT", Message: "unknown message type"})
		}
	}
}

// forward relays session events and keeps the connection alive with pings.
func (h *WSHandler) forward(ctx context.Context, wc *wsConn, sessionID string, log *logrus.Entry) {
	var evs <-chan events.Event
	if h.events != nil {
		ch, closeSub, err := h.events.Subscribe(ctx, sessionID)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.WithError(err).Warn("session event subscription failed")
			}
		} else {
			defer closeSub()
			evs = ch
		}
	}

	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wc.ping(); err != nil {
				return
			}
		case ev, ok := <-evs:
			if !ok {
				evs = nil
				continue
			}
			if err := wc.writeJSON(ev); err != nil {
				return
			}
		}
	}
}
