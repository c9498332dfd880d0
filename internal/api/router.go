// Package api serves the read-only sample endpoints. Payloads are fixed and
// built fresh per request; nothing here reads the table store.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/schemalab/internal/config"
	"github.com/mesh-intelligence/schemalab/internal/logging"
)

// Option customizes NewRouter.
type Option func(*handlers)

// WithClock replaces time.Now for order dates.
func WithClock(now func() time.Time) Option {
	return func(h *handlers) { h.now = now }
}

type handlers struct {
	now func() time.Time
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// NewRouter builds the gin engine with every route mounted at the root and
// again under /api.
func NewRouter(cfg config.ServerConfig, logger *slog.Logger, opts ...Option) *gin.Engine {
	h := &handlers{now: time.Now}
	for _, opt := range opts {
		opt(h)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowOrigins)))
	r.Use(requestID(logger))
	r.Use(accessLog("/health", "/api/health"))

	for _, g := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api")} {
		g.GET("/health", h.health)
		g.GET("/products", h.products)
		g.GET("/customers", h.customers)
		g.GET("/orders", h.orders)
	}
	return r
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, Health{Status: "ok", Message: "server is running"})
}

func (h *handlers) products(c *gin.Context) {
	respond(c, sampleProducts())
}

func (h *handlers) customers(c *gin.Context) {
	respond(c, sampleCustomers())
}

func (h *handlers) orders(c *gin.Context) {
	respond(c, sampleOrders(h.now()))
}

func respond[T any](c *gin.Context, records []T) {
	if err := validateAll(records); err != nil {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(),
			"invalid sample record", slog.String("error", err.Error()))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}
	c.JSON(http.StatusOK, records)
}
