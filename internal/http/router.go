package router

import (
	"net/http"
	"time"

	"github.com/Renal37/go-quote-relay/internal/logger"
	"github.com/Renal37/go-quote-relay/internal/middlewares"
	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const loginPath = "/api/user/login"

type Config struct {
	// Endpoint адрес и порт, на которых сервер будет слушать входящие запросы.
	Endpoint string
	// ExportDir каталог, из которого раздаются файлы выгрузок.
	ExportDir string
}

type Router struct {
	config       Config
	authService  models.AuthService
	jwtService   models.JWTService
	quoteService models.QuoteService
	adminService models.AdminService
	metrics      http.Handler
}

func New(
	config Config,
	authService models.AuthService,
	jwtService models.JWTService,
	quoteService models.QuoteService,
	adminService models.AdminService,
	metrics http.Handler,
) *Router {
	return &Router{
		config:       config,
		authService:  authService,
		jwtService:   jwtService,
		quoteService: quoteService,
		adminService: adminService,
		metrics:      metrics,
	}
}

func (router *Router) get() chi.Router {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middlewares.ServiceInjectorMiddleware(middlewares.Services{
			Auth:  router.authService,
			JWT:   router.jwtService,
			Quote: router.quoteService,
			Admin: router.adminService,
		}),
		logger.RequestLogger,
		middlewares.AuthMiddleware().WithExcludedPaths(
			"/api/user/register",
			loginPath,
			"/metrics",
		).Middleware,
	)

	if router.metrics != nil {
		r.Method(http.MethodGet, "/metrics", router.metrics)
	}

	quoteNonce := middlewares.NonceMiddleware(services.NonceActionQuote)
	adminNonce := middlewares.NonceMiddleware(services.NonceActionAdmin)

	r.Route("/api/user", func(r chi.Router) {
		r.With(middlewares.JSONMiddleware[models.UnknownUser]).Post("/register", Register)
		r.With(middlewares.JSONMiddleware[models.UnknownUser]).Post("/login", Login)
		r.Get("/nonce", GetNonces)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/summary", GetCartSummary)
		r.With(quoteNonce).Post("/validate", ValidateCart)
	})

	r.With(quoteNonce).Post("/api/quotes", SubmitQuote)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middlewares.RequireElevated)

		r.Get("/quotes", ListQuotes)
		r.Get("/quotes/{id}", GetQuote)
		r.Get("/quotes/{id}/pdf", GetQuotePDF)
		r.With(adminNonce, middlewares.JSONMiddleware[models.StatusUpdate]).Put("/quotes/{id}/status", UpdateQuoteStatus)
		r.With(adminNonce).Post("/quotes/{id}/resend", ResendQuote)
		r.With(adminNonce, middlewares.JSONMiddleware[models.ExportRequest]).Post("/quotes/export", ExportQuotes)
		r.With(adminNonce).Post("/erp/test", TestERPConnection)
		r.Get("/stats", GetStats)
		r.With(adminNonce, middlewares.JSONMiddleware[map[string]string]).Put("/settings", UpdateSettings)
	})

	if router.config.ExportDir != "" {
		r.With(middlewares.RequireElevated).Handle("/exports/*",
			http.StripPrefix("/exports/", http.FileServer(http.Dir(router.config.ExportDir))))
	}

	return r
}

// Server HTTP-сервер с таймаутами. Чтение ответа ERP может занять до таймаута ERP,
// поэтому WriteTimeout не задаётся.
func (router *Router) Server() *http.Server {
	return &http.Server{
		Addr:              router.config.Endpoint,
		Handler:           router.get(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
