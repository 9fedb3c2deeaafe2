package router

import (
	"time"

	"github.com/arliBukasa/pos-caisse/internal/config"
	"github.com/arliBukasa/pos-caisse/internal/handler"
	"github.com/arliBukasa/pos-caisse/internal/middleware"
	"github.com/arliBukasa/pos-caisse/internal/model"
	"github.com/arliBukasa/pos-caisse/internal/repository"
	"github.com/arliBukasa/pos-caisse/internal/service"
	"github.com/arliBukasa/pos-caisse/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	utilisateurRepo := repository.NewUtilisateurRepository(db)
	vendeurRepo := repository.NewVendeurRepository(db)
	painRepo := repository.NewPainRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	commandeRepo := repository.NewCommandeRepository(db)
	mouvementRepo := repository.NewMouvementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(utilisateurRepo, cfg)
	vendeurSvc := service.NewVendeurService(vendeurRepo)
	painSvc := service.NewPainService(painRepo, rdb)
	mouvementSvc := service.NewMouvementService(mouvementRepo, sessionRepo)
	commandeSvc := service.NewCommandeService(commandeRepo, sessionRepo, painRepo, vendeurSvc, mouvementSvc)
	sessionSvc := service.NewSessionService(sessionRepo, mouvementRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	vendeursH := handler.NewVendeurHandler(vendeurSvc)
	painsH := handler.NewPainHandler(painSvc)
	sessionsH := handler.NewSessionHandler(sessionSvc)
	commandesH := handler.NewCommandeHandler(commandeSvc)
	caisseH := handler.NewCaisseHandler(mouvementSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleCaissier, model.RoleAdministrateur)
	adminOnly := middleware.RequireRole(model.RoleAdministrateur)

	v1 := r.Group("/v1", jwtMW)
	{
		commandes := v1.Group("/commandes", anyRole)
		{
			commandes.POST("", commandesH.Create)
			commandes.GET("", commandesH.List)
			commandes.GET("/:id", commandesH.Get)
			commandes.POST("/:id/confirmer", commandesH.Confirmer)
			commandes.POST("/:id/annuler", commandesH.Annuler)
			commandes.POST("/:id/livrer", commandesH.Livrer)
			commandes.POST("/:id/payer", commandesH.MarquerPayee)
			commandes.PATCH("/:id/client", commandesH.UpdateClient)
		}

		sessions := v1.Group("/sessions", anyRole)
		{
			sessions.POST("", sessionsH.Manage)
			sessions.GET("", sessionsH.List)
			sessions.GET("/:id/dashboard", sessionsH.Dashboard)
			sessions.POST("/:id/rapport", sessionsH.Rapport)
		}
		v1.POST("/sessions/:id/reopen", adminOnly, sessionsH.Reopen)

		caisse := v1.Group("/caisse", anyRole)
		{
			caisse.POST("/entree", caisseH.Entree)
			caisse.POST("/sortie", caisseH.Sortie)
			caisse.GET("/mouvements", caisseH.ListMouvements)
		}

		// Types de pain: everyone reads (catalog sync), admin writes
		v1.GET("/types-pain", anyRole, painsH.List)
		v1.GET("/types-pain/:id", anyRole, painsH.Get)
		pains := v1.Group("/types-pain", adminOnly)
		{
			pains.POST("", painsH.Create)
			pains.PUT("/:id", painsH.Update)
			pains.DELETE("/:id", painsH.Delete)
		}

		vendeurs := v1.Group("/vendeurs", anyRole)
		{
			vendeurs.GET("", vendeursH.Search)
			vendeurs.POST("", vendeursH.Create)
			vendeurs.GET("/:id/stats", vendeursH.Stats)
		}

		utilisateurs := v1.Group("/utilisateurs", adminOnly)
		{
			utilisateurs.POST("", authH.CreerUtilisateur)
			utilisateurs.GET("", authH.ListerUtilisateurs)
			utilisateurs.DELETE("/:id", authH.DesactiverUtilisateur)
		}
	}

	return r
}
