package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mucalsync/calsync-server/backend"
	"github.com/mucalsync/calsync-server/calendar"
	"github.com/mucalsync/calsync-server/googleauth"
	"github.com/mucalsync/calsync-server/internal/config"
	"github.com/mucalsync/calsync-server/operators"
	"github.com/mucalsync/calsync-server/sessions"
	"github.com/mucalsync/calsync-server/tokenstore"
)

// Server wires the credential validator, session bridge, Google OAuth
// exchanger, cookie token store, calendar syncer, and backend proxy behind
// one HTTP mux.
type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config

	validator *operators.Validator
	issuer    *sessions.Issuer
	bridge    *sessions.Bridge
	exchanger *googleauth.Exchanger
	store     *tokenstore.Store
	syncer    *calendar.Syncer
	backend   *backend.Client
}

// Option modifies a Server during construction.
type Option func(*Server)

// WithExchanger overrides the Google OAuth exchanger (primarily for testing)
func WithExchanger(e *googleauth.Exchanger) Option {
	return func(s *Server) {
		s.exchanger = e
	}
}

// WithSyncer overrides the calendar syncer (primarily for testing)
func WithSyncer(sy *calendar.Syncer) Option {
	return func(s *Server) {
		s.syncer = sy
	}
}

// WithBackendClient overrides the backend proxy client (primarily for testing)
func WithBackendClient(c *backend.Client) Option {
	return func(s *Server) {
		s.backend = c
	}
}

func New(cfg config.Config, options ...Option) (*Server, error) {
	validator := operators.NewValidator(cfg)

	issuer, err := sessions.NewIssuer(cfg, validator)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create claim issuer: %w", err)
	}

	s := &Server{
		env:       cfg.GetEnv(),
		mux:       http.NewServeMux(),
		config:    cfg,
		validator: validator,
		issuer:    issuer,
		store:     tokenstore.New(cfg),
	}

	for _, opt := range options {
		opt(s)
	}

	if s.exchanger == nil {
		s.exchanger = googleauth.NewExchanger(cfg)
	}
	if s.syncer == nil {
		s.syncer = calendar.NewSyncer()
	}
	if s.backend == nil {
		s.backend = backend.New(cfg)
	}

	s.bridge = sessions.NewBridge(issuer, s.exchanger, s.store, validator)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "development" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
