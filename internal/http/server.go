package httpapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alphabot-ai/skillswap/internal/auth"
	"github.com/alphabot-ai/skillswap/internal/config"
	"github.com/alphabot-ai/skillswap/internal/moderation"
	"github.com/alphabot-ai/skillswap/internal/rate"
	"github.com/alphabot-ai/skillswap/internal/store"

	_ "github.com/alphabot-ai/skillswap/docs" // swagger docs

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// Build metadata, set with -ldflags at release time.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

type Server struct {
	store   store.Store
	auth    *auth.Service
	gateway *moderation.Gateway
	engine  *moderation.Engine
	limiter rate.Limiter
	cfg     config.Config
	logger  *slog.Logger
	router  chi.Router
}

func NewServer(st store.Store, authSvc *auth.Service, limiter rate.Limiter, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:   st,
		auth:    authSvc,
		gateway: moderation.NewGateway(st),
		engine:  moderation.NewEngine(st, logger),
		limiter: limiter,
		cfg:     cfg,
		logger:  logger.With("module", "http"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) { notFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) { methodNotAllowed(w) })

	r.Get("/healthz", s.handleHealth)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/api/openapi.json")))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/openapi.json", s.serveOpenAPIJSON)

		r.Post("/auth/challenge", s.handleAuthChallenge)
		r.Post("/auth/verify", s.handleAuthVerify)
		r.Post("/auth/logout", s.handleAuthLogout)

		r.Post("/accounts", s.handleCreateAccount)
		r.Get("/accounts/{id}", s.handleGetAccount)
		r.Get("/accounts/{id}/skills", s.handleAccountSkills)
		r.Get("/accounts/{id}/ratings", s.handleAccountRatings)

		r.Get("/skills", s.handleListSkills)
		r.Post("/skills", s.handleCreateSkill)
		r.Delete("/skills/{id}", s.handleDeleteSkill)

		r.Get("/swaps", s.handleListSwaps)
		r.Post("/swaps", s.handleCreateSwap)
		r.Put("/swaps/{id}", s.handleUpdateSwap)
		r.Delete("/swaps/{id}", s.handleDeleteSwap)

		r.Post("/ratings", s.handleCreateRating)
		r.Get("/messages", s.handleListMessages)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", s.handleAdminUsers)
			r.Put("/users/{id}/ban", s.handleAdminBan)
			r.Put("/skills/{id}", s.handleAdminSkill)
			r.Post("/messages", s.handleAdminMessage)
			r.Get("/reports", s.handleAdminReport)
			r.Get("/swaps", s.handleAdminSwaps)
			r.Get("/logs", s.handleAdminLogs)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleVersion godoc
//
//	@Summary	Build information
//	@Tags		Meta
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/api/version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"version":    Version,
		"commit":     Commit,
		"build_time": BuildTime,
	})
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		s.fail(w, r, "openapi", http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int) bool {
	if limit <= 0 {
		return true
	}
	key := fmt.Sprintf("%s:ip:%s", action, s.clientIP(r))
	if ok, retry := s.limiter.Allow(r.Context(), key, limit, time.Minute); !ok {
		writeRateLimit(w, retry)
		return false
	}
	return true
}

var errMissingBearer = errors.New("missing bearer token")

func (s *Server) authenticate(r *http.Request) (auth.Verified, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return auth.Verified{}, errMissingBearer
	}
	return s.auth.Authenticate(r.Context(), strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
}

// optionalAuth returns nil for anonymous or invalid callers.
func (s *Server) optionalAuth(r *http.Request) *auth.Verified {
	verified, err := s.authenticate(r)
	if err != nil {
		return nil
	}
	return &verified
}

func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (auth.Verified, bool) {
	verified, err := s.authenticate(r)
	switch {
	case err == nil:
		return verified, true
	case errors.Is(err, errMissingBearer) || auth.IsCredentialError(err):
		s.fail(w, r, "auth.authenticate", http.StatusUnauthorized, err)
	case errors.Is(err, auth.ErrAccountBanned):
		s.fail(w, r, "auth.authenticate", http.StatusForbidden, err)
	default:
		s.fail(w, r, "auth.authenticate", http.StatusInternalServerError, err)
	}
	return auth.Verified{}, false
}

// authorizeAdmin resolves the bearer token into an explicit identity and asks
// the moderation gateway whether it belongs to an admin.
func (s *Server) authorizeAdmin(w http.ResponseWriter, r *http.Request) (moderation.Admin, bool) {
	var caller *moderation.Identity
	verified, err := s.authenticate(r)
	switch {
	case err == nil:
		caller = &moderation.Identity{AccountID: verified.AccountID}
	case errors.Is(err, errMissingBearer) || auth.IsCredentialError(err):
	case errors.Is(err, auth.ErrAccountBanned):
		s.fail(w, r, "admin.authorize", http.StatusForbidden, err)
		return moderation.Admin{}, false
	default:
		s.fail(w, r, "admin.authorize", http.StatusInternalServerError, err)
		return moderation.Admin{}, false
	}
	admin, err := s.gateway.Authorize(r.Context(), caller)
	if err != nil {
		s.failModeration(w, r, "admin.authorize", err)
		return moderation.Admin{}, false
	}
	return admin, true
}

func (s *Server) clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeRateLimit(w http.ResponseWriter, retry time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded",
		"retry_after": int(retry.Seconds()),
	})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func parseIntDefault(value string, def int) int {
	if value == "" {
		return def
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return def
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
