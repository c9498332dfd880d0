package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/schemalab/internal/logging"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// requestID reuses the caller's X-Request-ID or mints a UUID v7, echoes it,
// and stores a logger tagged with it in the request context.
func requestID(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			v7, err := uuid.NewV7()
			if err != nil {
				v7 = uuid.New()
			}
			id = v7.String()
		}
		c.Header(HeaderRequestID, id)
		ctx := logging.WithLogger(c.Request.Context(), logger.With(slog.String("request_id", id)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// accessLog logs one line per request at a level chosen by status.
func accessLog(ignore ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(ignore))
	for _, p := range ignore {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}
		attrs := []slog.Attr{
			slog.Int("status", status),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.String("client_ip", c.ClientIP()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("data_length", size),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}
		ctx := c.Request.Context()
		logging.FromContext(ctx).LogAttrs(ctx, level,
			fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path), attrs...)
	}
}
