// Package ctxutil provides helpers for request-scoped values carried in a
// context.Context, with optional pass-through to the enclosing *gin.Context.
//
// # Trace IDs
//
// Every request handled by the HTTP layer carries a trace id:
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//	logger.Info(ctx, "handling request") // trace_id field is attached
//
// # Gin Integration
//
//	ctx := ctxutil.WithGinContext(c.Request.Context(), c)
//	ginCtx, ok := ctxutil.GetGinContext(ctx)
package ctxutil
