package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vibesort"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Sorter interface {
	SortBy(ctx context.Context, items []string, criteria string) ([]string, error)
}

type SortHandler struct {
	sorter Sorter
}

func NewSortHandler(sorter Sorter) *SortHandler {
	return &SortHandler{sorter: sorter}
}

type SortRequest struct {
	Items    []string `json:"items" binding:"required"`
	Criteria string   `json:"criteria"`
}

type SortResponse struct {
	Items []string `json:"items"`
}

func (h *SortHandler) Sort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.sorter.SortBy(c.Request.Context(), req.Items, req.Criteria)
	if err != nil {
		slog.Error("error sorting items", "items", len(req.Items), "error", err)
		writeSortError(c, err)
		return
	}
	c.JSON(http.StatusOK, SortResponse{Items: items})
}

func (h *SortHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeSortError(c *gin.Context, err error) {
	var apiErr *vibesort.APIError
	switch {
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream api call failed", "status": apiErr.StatusCode})
	case errors.Is(err, vibesort.ErrMalformedResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "malformed upstream response"})
	case errors.Is(err, vibesort.ErrTransport):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream unreachable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// NewRouter wires the sort endpoints. CORS is enabled only when
// allowedOrigins is non-empty.
func NewRouter(sorter Sorter, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	h := NewSortHandler(sorter)
	r.POST("/v1/sort", h.Sort)
	r.GET("/healthz", h.Health)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
