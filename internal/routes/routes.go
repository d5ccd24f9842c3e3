package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pathfinder-ai/pathfinder/internal/app"
	"github.com/pathfinder-ai/pathfinder/internal/handler"
	"github.com/pathfinder-ai/pathfinder/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService)
	account := handler.NewAccountHandler(app.AuthService, app.UserService, app.ProfileService, app.SubscriptionService)
	billing := handler.NewBillingHandler(app.SubscriptionService)
	career := handler.NewCareerHandler(app.CareerService)
	quest := handler.NewQuestHandler(app.QuestService)
	insight := handler.NewInsightHandler(app.InsightService)

	mux := http.NewServeMux()

	// handle registers an instrumented route
	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.Instrument(pattern, h))
	}
	authed := middleware.RequireAuth

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	handle("GET /api/csrf", auth.CSRFToken)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	handle("POST /api/auth/signup", rateLimiter(middleware.RequireGuest(auth.Signup)))
	handle("POST /api/auth/login", rateLimiter(middleware.RequireGuest(auth.Login)))
	handle("POST /api/auth/reset-password", rateLimiter(middleware.RequireGuest(auth.ResetPassword)))
	handle("POST /api/auth/logout", auth.Logout)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Account & profile
	handle("GET /api/me", authed(account.Me))
	handle("PATCH /api/me/theme", authed(account.UpdateTheme))
	handle("PATCH /api/me/email", authed(account.UpdateEmail))
	handle("POST /api/me/password", authed(account.ChangePassword))
	handle("DELETE /api/me", authed(account.DeleteAccount))

	// Billing
	handle("GET /api/subscription", authed(billing.Subscription))
	handle("POST /api/subscription", authed(billing.Subscribe))
	handle("DELETE /api/subscription", authed(billing.Cancel))

	// Calls that reach the generation gateway share a per-user limit
	gen := middleware.RateLimitGeneration()
	roadmap := handler.NewRoadmapHandler(app.RoadmapService, app.ExportService, gen)

	// Careers
	handle("POST /api/careers/suggest", authed(gen(career.Suggest)))
	handle("GET /api/careers/search", authed(gen(career.Search)))
	handle("GET /api/careers/assessment", authed(gen(career.Assessment)))
	handle("GET /api/careers", authed(career.List))
	handle("POST /api/careers", authed(gen(career.Onboard)))
	handle("GET /api/careers/{careerID}/snapshot", authed(career.Snapshot))
	handle("POST /api/careers/{careerID}/current", authed(career.Switch))
	handle("DELETE /api/careers/{careerID}", authed(career.Delete))

	// Roadmaps
	handle("GET /api/careers/{careerID}/roadmap", authed(roadmap.Overview))
	handle("POST /api/careers/{careerID}/roadmap/generate", authed(gen(roadmap.Generate)))
	handle("POST /api/careers/{careerID}/roadmap/items/{itemID}/toggle", authed(roadmap.ToggleItem))
	handle("POST /api/careers/{careerID}/roadmap/phases/{index}/reset", authed(roadmap.ResetPhase))
	handle("POST /api/careers/{careerID}/roadmap/reset", authed(roadmap.ResetRoadmap))
	handle("POST /api/roadmaps/reset", authed(roadmap.ResetAll))
	handle("GET /api/careers/{careerID}/roadmap/date-change", authed(roadmap.PlanDateChange))
	handle("POST /api/careers/{careerID}/roadmap/adapt", authed(gen(roadmap.Adapt)))
	handle("POST /api/careers/{careerID}/roadmap/after-phase", authed(roadmap.AfterPhase))
	handle("POST /api/careers/{careerID}/roadmap/export", authed(roadmap.Export))

	// Quests
	handle("GET /api/careers/{careerID}/daily-challenge", authed(gen(quest.DailyChallenge)))
	handle("POST /api/careers/{careerID}/daily-challenge", authed(quest.SubmitDailyChallenge))
	handle("POST /api/careers/{careerID}/simulations", authed(gen(quest.StartSimulation)))
	handle("POST /api/simulations/{questID}/choice", authed(quest.FinishSimulation))
	handle("GET /api/careers/{careerID}/trivia", authed(gen(quest.Trivia)))

	// Insights
	handle("GET /api/careers/{careerID}/news", authed(gen(insight.News)))
	handle("GET /api/careers/{careerID}/feed", authed(gen(insight.Feed)))
	handle("POST /api/chat", authed(gen(insight.Chat)))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.Recover,
		middleware.SecurityHeaders,
		middleware.CORS(app.Cfg.CORSOrigins),
		middleware.Config(app.Cfg),
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.AuthMiddleware(app.AuthService, app.UserService),
	)
}
