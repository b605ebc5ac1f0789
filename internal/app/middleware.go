package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/pharmacare/pharmacy-web/internal/observability"
	"github.com/pharmacare/pharmacy-web/internal/shared"
)

// CSRFHeader lets scripted clients send the token without a form body.
const CSRFHeader = "X-CSRF-Token"

const contentSecurityPolicy = "default-src 'self'; style-src 'self'; script-src 'self'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'"

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics
}

func (cfg MiddlewareConfig) rateLimit() int {
	if cfg.Config != nil && cfg.Config.RateLimit > 0 {
		return cfg.Config.RateLimit
	}
	return 120
}

func (cfg MiddlewareConfig) requestTimeout() time.Duration {
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		return cfg.Config.AppRequestTimeout
	}
	return 30 * time.Second
}

// MiddlewareStack installs the pharmacy web middleware chain. Sessions load
// before Recoverer so a panic page still carries the session cookie.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		requestLogger(cfg.Logger),
		loadSession(cfg.Logger, cfg.SessionManager),
		middleware.Recoverer,
		middleware.Timeout(cfg.requestTimeout()),
		secureHeaders(cfg),
		middleware.Compress(5),
		httprate.Limit(cfg.rateLimit(), time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
		verifyCSRF(cfg.Logger, cfg.CSRFManager),
	}
	if cfg.Metrics != nil {
		stack = append(stack, cfg.Metrics.Middleware)
	}
	return stack
}

// requestLogger writes one line per request once the handler returns.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// committingWriter saves the session right before the status line goes out,
// so Set-Cookie and flash changes land on every response including redirects.
type committingWriter struct {
	http.ResponseWriter
	ctx       context.Context
	req       *http.Request
	sess      *shared.Session
	sessions  *shared.SessionManager
	logger    *slog.Logger
	committed bool
}

func (w *committingWriter) WriteHeader(status int) {
	if !w.committed {
		w.committed = true
		if err := w.sessions.Commit(w.ctx, w.ResponseWriter, w.req, w.sess); err != nil {
			w.logger.Error("commit session", slog.Any("error", err))
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *committingWriter) Write(data []byte) (int, error) {
	if !w.committed {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}

func (w *committingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func loadSession(logger *slog.Logger, sessions *shared.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Load(r.Context(), r)
			if err != nil {
				logger.Error("load session", slog.Any("error", err))
				http.Error(w, "Session store unavailable. Please try again shortly.", http.StatusServiceUnavailable)
				return
			}
			ctx := shared.ContextWithSession(r.Context(), sess)
			r = r.WithContext(ctx)
			next.ServeHTTP(&committingWriter{
				ResponseWriter: w,
				ctx:            ctx,
				req:            r,
				sess:           sess,
				sessions:       sessions,
				logger:         logger,
			}, r)
		})
	}
}

func secureHeaders(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
		SSLRedirect:           cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !cfg.Config.IsProduction(),
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sec.Process(w, r); err != nil {
				cfg.Logger.Warn("secure headers rejected request", slog.String("host", r.Host), slog.Any("error", err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// verifyCSRF guards every unsafe method. Login and register are covered too;
// their forms carry the token issued with the anonymous session.
func verifyCSRF(logger *slog.Logger, csrf *shared.CSRFManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			token := r.PostFormValue(shared.CSRFFormField)
			if token == "" {
				token = r.Header.Get(CSRFHeader)
			}
			if err := csrf.VerifyToken(r.Context(), shared.SessionFromContext(r.Context()), token); err != nil {
				logger.Warn("csrf check failed", slog.String("path", r.URL.Path), slog.Any("error", err))
				http.Error(w, "Your form has expired. Please reload the page and try again.", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
