package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"humanaid/internal/metrics"
	"humanaid/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type ResourceStore interface {
	Resources(ctx context.Context, filter types.ResourceFilter) (*types.ResourcePage, error)
	AdminResources(ctx context.Context, filter types.ResourceFilter) (*types.ResourcePage, error)
	Resource(ctx context.Context, id int64) (*types.ResourceListing, error)
	Stats(ctx context.Context) (*types.StatsData, error)
}

type CategoryStore interface {
	Categories(ctx context.Context, filter types.CategoryFilter) ([]*types.CategoryListing, error)
}

type Searcher interface {
	Search(ctx context.Context, req types.SearchRequest) (*types.SearchResult, error)
}

type Moderator interface {
	Submit(ctx context.Context, input types.SubmissionInput) (*types.Submission, error)
	Submissions(ctx context.Context, status types.SubmissionStatus) ([]*types.SubmissionListing, error)
	Review(ctx context.Context, id int64, input types.ReviewInput) (*types.ReviewOutcome, error)
}

type ResourceEditor interface {
	Update(ctx context.Context, id int64, patch types.ResourcePatch) (*types.ResourceListing, error)
}

type FavoriteStore interface {
	Toggle(ctx context.Context, userID, resourceID int64) (bool, error)
	FavoritesByUser(ctx context.Context, userID int64) ([]*types.ResourceListing, error)
}

type UserStore interface {
	UserByExternalUID(ctx context.Context, uid string) (*types.User, error)
	UpsertIdentity(ctx context.Context, externalUID string, input types.UserSyncInput) (*types.User, error)
}

type Suggester interface {
	Suggest(ctx context.Context, pageURL string) (*types.SubmissionDraft, error)
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps groups everything the handlers call into. Verifier may be nil, in
// which case authenticated routes answer 401.
type Deps struct {
	Resources  ResourceStore
	Categories CategoryStore
	Search     Searcher
	Moderation Moderator
	Editor     ResourceEditor
	Favorites  FavoriteStore
	Users      UserStore
	Suggester  Suggester
	Verifier   TokenVerifier
	DB         Pinger
	Metrics    *metrics.Metrics
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	resources  ResourceStore
	categories CategoryStore
	search     Searcher
	moderation Moderator
	editor     ResourceEditor
	favorites  FavoriteStore
	users      UserStore
	suggester  Suggester
	verifier   TokenVerifier
	db         Pinger
	metrics    *metrics.Metrics

	server *http.Server
}

func New(config *types.Config, logger *logrus.Logger, deps Deps) *Service {
	mux := flow.New()

	s := &Service{
		logger: logger,
		config: config,

		resources:  deps.Resources,
		categories: deps.Categories,
		search:     deps.Search,
		moderation: deps.Moderation,
		editor:     deps.Editor,
		favorites:  deps.Favorites,
		users:      deps.Users,
		suggester:  deps.Suggester,
		verifier:   deps.Verifier,
		db:         deps.DB,
		metrics:    deps.Metrics,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)
	// flow only runs middleware for matched routes, and "/x/" never matches "/x"
	s.server.Handler = s.StripTrailingSlash(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/api/health", s.handleHealth, http.MethodGet)
	r.HandleFunc("/api/db-health", s.handleDBHealth, http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler(), http.MethodGet)
	}

	s.route(r, "/api/resources", s.handleListResources, http.MethodGet)
	s.route(r, "/api/resources/:id", s.handleGetResource, http.MethodGet)
	s.route(r, "/api/categories", s.handleListCategories, http.MethodGet)
	s.route(r, "/api/search", s.handleSearch, http.MethodGet)
	s.route(r, "/api/stats", s.handleStats, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.OptionalAuth)

		s.route(r, "/api/submissions", s.handleCreateSubmission, http.MethodPost)
		s.route(r, "/api/submissions/suggest", s.handleSuggest, http.MethodPost)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		s.route(r, "/api/users/sync", s.handleUserSync, http.MethodPost)
		s.route(r, "/api/favorites", s.handleListFavorites, http.MethodGet)
		s.route(r, "/api/favorites/:resourceID/toggle", s.handleToggleFavorite, http.MethodPost)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)
		r.Use(s.RequireAdmin)

		s.route(r, "/api/submissions", s.handleListSubmissions, http.MethodGet)
		s.route(r, "/api/submissions/:id", s.handleReviewSubmission, http.MethodPatch)
		s.route(r, "/api/admin/resources", s.handleAdminListResources, http.MethodGet)
		s.route(r, "/api/admin/resources/:id", s.handleAdminUpdateResource, http.MethodPut)
	})
}

// route registers h and, when metrics are enabled, labels it with its pattern.
func (s *Service) route(r *flow.Mux, pattern string, h http.HandlerFunc, method string) {
	var handler http.Handler = h
	if s.metrics != nil {
		handler = s.metrics.Instrument(pattern, h)
	}
	r.Handle(pattern, handler, method)
}
