package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/config"
	"github.com/mg3/promag-api/internal/db"
	"github.com/mg3/promag-api/internal/handlers"
	"github.com/mg3/promag-api/internal/logging"
	"github.com/mg3/promag-api/internal/mq"
	"github.com/mg3/promag-api/internal/services"
	"github.com/mg3/promag-api/internal/storage"
	"github.com/mg3/promag-api/internal/store"
	"github.com/mg3/promag-api/types"
)

const (
	defaultPort     = 4000
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Backends are opened through these so tests can substitute them.
var (
	openDB      = db.Open
	openStorage = storage.Open
	openEvents  = mq.Open
)

// Server wraps the HTTP server and the resources behind it.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	images     storage.ObjectStorage
	events     mq.Backend
	notifier   *mq.Notifier
	log        *zap.Logger
}

// dependencies are the external resources the routes are built on.
// images and notifier are nil when the backend is disabled.
type dependencies struct {
	db       *sql.DB
	images   storage.ObjectStorage
	notifier *mq.Notifier
}

// New connects to the database, optional object storage and event broker,
// and builds the router.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Server, error) {
	if cfg.Database.MigrateOnStart {
		if err := db.MigrateUp(cfg); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
	}

	dbConn, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureRuntimeSchema(ctx, dbConn); err != nil {
		// Not fatal: the tables may simply not exist yet.
		log.Warn("runtime schema not ensured", zap.Error(err))
	}

	images, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open object storage: %w", err)
	}
	if images == nil {
		log.Info("object storage disabled, project images unavailable")
	}

	events, err := openEvents(ctx, cfg.Events)
	if err != nil {
		if images != nil {
			_ = images.Close()
		}
		_ = dbConn.Close()
		return nil, fmt.Errorf("open events backend: %w", err)
	}
	var notifier *mq.Notifier
	if events == nil {
		log.Info("events backend disabled")
	} else {
		notifier = mq.NewNotifier(events, cfg.Events.Channel, log)
	}

	router := newRouter(cfg, log, dependencies{db: dbConn, images: images, notifier: notifier})

	port := cfg.ServerPort
	if port == 0 {
		port = defaultPort
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		db:         dbConn,
		images:     images,
		events:     events,
		notifier:   notifier,
		log:        log,
	}, nil
}

func newRouter(cfg config.Config, log *zap.Logger, deps dependencies) *chi.Mux {
	var notifier services.ChangeNotifier
	if deps.notifier != nil {
		notifier = deps.notifier
	}

	projectRepo := store.NewProjectRepository(deps.db)

	userService := services.NewUserService(store.NewUserRepository(deps.db))
	projectService := services.NewProjectService(projectRepo, notifier)
	var imageService *services.ProjectImageService
	if deps.images != nil {
		imageService = services.NewProjectImageService(projectRepo, deps.images, cfg.APIPrefix, notifier)
	}
	submittalService := services.NewSubmittalService(store.NewSubmittalRepository(deps.db), notifier)
	rfiService := services.NewRFIService(store.NewRFIRepository(deps.db), notifier)
	actionItemService := services.NewActionItemService(store.NewActionItemRepository(deps.db), notifier)
	eorService := services.NewEORService(store.NewEORRepository(deps.db), notifier)
	dashboardService := services.NewDashboardService(store.NewDashboardRepository(deps.db))

	auth := handlers.NewAuthHandler(userService, log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(log, cfg.APIPrefix),
		middleware.Recoverer,
		corsHandler(cfg.CORSOrigin),
		middleware.Timeout(requestTimeout),
	)

	router.Route(apiPrefix(cfg.APIPrefix), func(r chi.Router) {
		handlers.HealthRouter(r)
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, auth)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Route("/projects", func(r chi.Router) {
				handlers.ProjectRouter(r, handlers.NewProjectHandler(projectService, imageService, log))
			})
			r.Route("/submittals", func(r chi.Router) {
				handlers.TrackerRouter(r, handlers.NewSubmittalHandler(submittalService, log))
			})
			r.Route("/rfis", func(r chi.Router) {
				handlers.TrackerRouter(r, handlers.NewRFIHandler(rfiService, log))
			})
			r.Route("/action-items", func(r chi.Router) {
				handlers.TrackerRouter(r, handlers.NewActionItemHandler(actionItemService, log))
			})
			for path, kind := range map[string]types.ReferenceKind{
				"/aors":           types.ReferenceAOR,
				"/providers":      types.ReferenceProvider,
				"/subcontractors": types.ReferenceSubcontractor,
			} {
				service := services.NewReferenceService(store.NewReferenceRepository(deps.db, kind), notifier)
				r.Route(path, func(r chi.Router) {
					handlers.ReferenceRouter(r, handlers.NewReferenceHandler(service, log))
				})
			}
			r.Route("/eors", func(r chi.Router) {
				handlers.EORRouter(r, handlers.NewEORHandler(eorService, log))
			})
			r.Route("/dashboard", func(r chi.Router) {
				handlers.DashboardRouter(r, handlers.NewDashboardHandler(dashboardService, log))
			})
		})
	})

	return router
}

// apiPrefix normalizes the configured prefix to "/x" form; empty mounts at "/".
func apiPrefix(prefix string) string {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	return prefix
}

// corsHandler allows every origin when origins is empty or "*"; otherwise
// origins is a comma-separated allow-list that may use one "*" per entry,
// e.g. "https://*.example.com".
func corsHandler(origins string) func(http.Handler) http.Handler {
	allowed := []string{"*"}
	if trimmed := strings.TrimSpace(origins); trimmed != "" && trimmed != "*" {
		allowed = allowed[:0]
		for _, origin := range strings.Split(trimmed, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowed = append(allowed, origin)
			}
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and change events, then releases the
// database, object storage and broker.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if s.notifier != nil {
		s.notifier.Wait()
	}
	if s.images != nil {
		if closeErr := s.images.Close(); closeErr != nil {
			s.log.Warn("close object storage", zap.Error(closeErr))
		}
	}
	if s.events != nil {
		if closeErr := s.events.Close(); closeErr != nil {
			s.log.Warn("close events backend", zap.Error(closeErr))
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
