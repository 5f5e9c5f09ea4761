package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"resumeradar/internal/intake"
	"resumeradar/internal/notify"
	"resumeradar/internal/review"
	"resumeradar/internal/storage"
	"resumeradar/internal/store"
	"resumeradar/internal/views"
	"resumeradar/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS

// ResumeReader is the read side of the resume store used by the pages.
type ResumeReader interface {
	Resume(ctx context.Context, resumeID string) (*types.Resume, error)
	ResumesByUser(ctx context.Context, userID string) ([]*types.Resume, error)
	AllResumes(ctx context.Context, filter store.ResumeFilter) ([]*types.ResumeWithOwner, error)
	Leaderboard(ctx context.Context, limit uint64) ([]*types.LeaderboardEntry, error)
	StatusCounts(ctx context.Context) (map[types.ResumeStatus]int, error)
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	cookie        *securecookie.SecureCookie
	cognitoClient *cognitoidentityprovider.Client
	jwksCache     *jwk.Cache
	jwksURL       string

	userRepo         *store.UserRepository
	resumeRepo       ResumeReader
	adminRequestRepo *store.AdminRequestRepository

	blobs    storage.BlobStore
	reviews  *review.Service
	intake   *intake.Service
	mailer   notify.Mailer
	composer *notify.Composer
	views    *views.Registry

	// resolvePrincipal identifies the caller of a request. It is
	// s.authenticate outside of tests.
	resolvePrincipal func(r *http.Request) (*types.Principal, error)

	server *http.Server
}

// Dependencies groups the collaborators the web service needs.
type Dependencies struct {
	CognitoClient *cognitoidentityprovider.Client
	JWKSCache     *jwk.Cache
	JWKSURL       string

	UserRepo         *store.UserRepository
	ResumeRepo       ResumeReader
	AdminRequestRepo *store.AdminRequestRepository

	Blobs    storage.BlobStore
	Reviews  *review.Service
	Intake   *intake.Service
	Mailer   notify.Mailer
	Composer *notify.Composer
	Views    *views.Registry
}

func New(config *types.Config, logger *logrus.Logger, deps Dependencies) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode COOKIE_HASH_KEY: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode COOKIE_BLOCK_KEY: %w", err)
	}

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		cognitoClient: deps.CognitoClient,
		jwksCache:     deps.JWKSCache,
		jwksURL:       deps.JWKSURL,

		userRepo:         deps.UserRepo,
		resumeRepo:       deps.ResumeRepo,
		adminRequestRepo: deps.AdminRequestRepo,

		blobs:    deps.Blobs,
		reviews:  deps.Reviews,
		intake:   deps.Intake,
		mailer:   deps.Mailer,
		composer: deps.Composer,
		views:    deps.Views,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.resolvePrincipal = s.authenticate

	if s.views == nil {
		s.views = views.NewRegistry("0")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	// Unmatched paths never reach route middleware, so trailing slashes are
	// stripped before routing.
	s.server.Handler = s.StripTrailingSlash(mux)

	return s, nil
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.OptionalAuth)

		r.HandleFunc("/", s.handleHome, http.MethodGet)
		r.HandleFunc("/leaderboard", s.handleLeaderboard, http.MethodGet)

		r.HandleFunc("/register", s.handleGetRegister, http.MethodGet)
		r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
		r.HandleFunc("/register/confirm", s.handleGetRegisterConfirm, http.MethodGet)
		r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)
		r.HandleFunc("/register/confirm/resend", s.handlePostRegisterResend, http.MethodPost)
		r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
		r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
		r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/dashboard", s.handleDashboard, http.MethodGet)
		r.HandleFunc("/resumes", s.handlePostResume, http.MethodPost)
		r.HandleFunc("/resumes/:id/file", s.handleResumeFile, http.MethodGet)

		r.HandleFunc("/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/profile", s.handlePostProfile, http.MethodPost)
		r.HandleFunc("/profile/admin-request", s.handlePostAdminRequest, http.MethodPost)

		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireAdmin)

			r.HandleFunc("/admin", s.handleAdmin, http.MethodGet)
			r.HandleFunc("/admin/resumes/:id/review", s.handlePostResumeReview, http.MethodPost)
			r.HandleFunc("/admin/requests/:id/review", s.handlePostAdminRequestReview, http.MethodPost)
		})
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"kb": func(size int64) string {
			return fmt.Sprintf("%.1f KB", float64(size)/1024)
		},
		"score": func(o types.Option[int]) string {
			if v, ok := o.Get(); ok {
				return fmt.Sprintf("%d/100", v)
			}
			return "-"
		},
		"timestamp": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339Nano)
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
