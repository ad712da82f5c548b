package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/taskmanager/config"
	"github.com/ncobase/taskmanager/ctxutil"
	"github.com/ncobase/taskmanager/logging/logger"
	"github.com/ncobase/taskmanager/logging/observes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

// traceMiddleware makes sure every request carries a trace id and a span.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		traceID := c.GetHeader(ctxutil.TraceIDHeader)
		if traceID != "" {
			ctx = ctxutil.SetTraceID(ctx, traceID)
		} else {
			ctx, traceID = ctxutil.EnsureTraceID(ctx)
		}
		c.Set(ctxutil.TraceIDKey, traceID)
		c.Header(ctxutil.TraceIDHeader, traceID)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, span := observes.StartSpan(ctx, observes.LayerHandler, c.Request.Method+" "+route,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.String(ctxutil.TraceIDKey, traceID),
		)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		var err error
		if status >= http.StatusInternalServerError {
			err = httpError(status)
		}
		observes.EndSpan(span, err)
	}
}

type httpError int

func (e httpError) Error() string {
	return "http status " + strconv.Itoa(int(e))
}

// corsMiddleware answers preflight requests and decorates responses
// according to cfg. A "*" entry allows everything.
func corsMiddleware(cfg *config.CORS) gin.HandlerFunc {
	if cfg == nil {
		cfg = &config.CORS{AllowOrigins: []string{"*"}, AllowMethods: []string{"*"}, AllowHeaders: []string{"*"}}
	}
	allowAllOrigins := slices.Contains(cfg.AllowOrigins, "*")
	methods := strings.Join(cfg.AllowMethods, ", ")
	if slices.Contains(cfg.AllowMethods, "*") {
		methods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	}
	headers := strings.Join(cfg.AllowHeaders, ", ")
	allowAllHeaders := slices.Contains(cfg.AllowHeaders, "*")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			switch {
			case allowAllOrigins && !cfg.AllowCredentials:
				c.Header("Access-Control-Allow-Origin", "*")
			case allowAllOrigins || slices.Contains(cfg.AllowOrigins, origin):
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			default:
				if c.Request.Method == http.MethodOptions {
					c.AbortWithStatus(http.StatusForbidden)
					return
				}
				c.Next()
				return
			}
			if cfg.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			c.Header("Access-Control-Expose-Headers", ctxutil.TraceIDHeader)
		}

		if c.Request.Method != http.MethodOptions || c.GetHeader("Access-Control-Request-Method") == "" {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Methods", methods)
		if allowAllHeaders {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			} else {
				c.Header("Access-Control-Allow-Headers", "*")
			}
		} else if headers != "" {
			c.Header("Access-Control-Allow-Headers", headers)
		}
		if cfg.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", strconv.Itoa(int(cfg.MaxAge/time.Second)))
		}
		c.AbortWithStatus(http.StatusNoContent)
	}
}

// loggerMiddleware logs one line per request.
func loggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		fields := []any{
			"method", method,
			"path", path,
			"status", status,
			"duration", duration.String(),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			l.Error(c.Request.Context(), append([]any{"HTTP request"}, fields...)...)
		case status >= http.StatusBadRequest:
			l.Warn(c.Request.Context(), append([]any{"HTTP request"}, fields...)...)
		default:
			l.Info(c.Request.Context(), append([]any{"HTTP request"}, fields...)...)
		}
	}
}
