package middleware

import (
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"

	slowRequestThreshold = 500 * time.Millisecond
)

// LoggingMiddleware gera o ID de correlação e registra o fim de cada
// requisição. Streams SSE ficam abertos por minutos e não entram no aviso de
// lentidão.
func LoggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, correlationID := log.WithCorrelationID(r.Context())
			r = r.WithContext(ctx)
			w.Header().Set(CorrelationIDHeader, correlationID)

			lrw := newLoggingResponseWriter(w)
			startTime := time.Now()

			next.ServeHTTP(lrw, r)

			duration := time.Since(startTime)
			logger := log.ForContext(ctx).WithFields(log.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": lrw.statusCode,
				"duration_ms": duration.Milliseconds(),
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.UserAgent(),
			})

			switch {
			case isEventStream(lrw, r):
				logger.Info("Stream de progresso encerrado")
			case lrw.statusCode >= 500:
				logger.Error("Requisição finalizada com erro")
			case lrw.statusCode >= 400:
				logger.Warn("Requisição finalizada com aviso")
			case duration > slowRequestThreshold:
				logger.Warnf("Requisição lenta: %s", duration)
			default:
				logger.Info("Requisição finalizada com sucesso")
			}
		})
	}
}

func isEventStream(w http.ResponseWriter, r *http.Request) bool {
	return strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream") ||
		strings.Contains(r.Header.Get("Accept"), "text/event-stream")
}

// loggingResponseWriter guarda o status escrito pelo handler
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Flush repassa o flush para o stream de progresso
func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}

// LogPanicMiddleware recupera panics dos handlers, registra a pilha e responde
// SRV_001 sem expor detalhes ao cliente
func LogPanicMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				stack := make([]byte, 4096)
				stack = stack[:runtime.Stack(stack, false)]

				log.ForContext(r.Context()).WithFields(log.Fields{
					"error":       recovered,
					"method":      r.Method,
					"path":        r.URL.Path,
					"stack_trace": string(stack),
				}).Error("Erro não tratado na aplicação")

				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
