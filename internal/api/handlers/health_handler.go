package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 5 * time.Second

// Checker probes one backing store for readiness.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	checkers []Checker
}

func NewHealthHandler(checkers ...Checker) *HealthHandler {
	return &HealthHandler{checkers: append([]Checker(nil), checkers...)}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Ready answers 200 only when every checker passes.
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := make(map[string]string, len(h.checkers))
	ok := true
	for _, chk := range h.checkers {
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		err := chk.Check(ctx)
		cancel()
		if err != nil {
			checks[chk.Name] = "fail: " + err.Error()
			ok = false
			continue
		}
		checks[chk.Name] = "ok"
	}

	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "fail", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
