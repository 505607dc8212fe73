package http

import (
	"log/slog"

	"github.com/geocoder89/heartspace/internal/auth"
	"github.com/geocoder89/heartspace/internal/config"
	"github.com/geocoder89/heartspace/internal/db"
	"github.com/geocoder89/heartspace/internal/http/handlers"
	"github.com/geocoder89/heartspace/internal/http/middlewares"
	"github.com/geocoder89/heartspace/internal/observability"
	"github.com/geocoder89/heartspace/internal/security"
	"github.com/geocoder89/heartspace/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const serviceName = "heartspace-api"

// NewRouter wires services over store and mounts every route. prom and
// gatherer may be nil, in which case metrics are not collected or exposed.
func NewRouter(log *slog.Logger, store *db.Store, cfg config.Config, prom *observability.Prom, gatherer prometheus.Gatherer) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(otelgin.Middleware(serviceName))
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	if cfg.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	}
	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))

	// wire up services
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := service.NewAuthService(store.Users, security.NewHasher(cfg.BcryptCost), jwtManager, prom)
	postService := service.NewPostService(store.Posts, store.Users)

	authMiddleware := middlewares.NewAuthMiddleware(authService)

	// health
	h := handlers.NewHealthHandler(store.Ping)
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	authHandler := handlers.NewAuthHandler(authService)
	postsHandler := handlers.NewPostsHandler(postService)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", middlewares.RequireJSON(), authHandler.SignUp)
		authGroup.POST("/login", middlewares.RequireJSON(), authHandler.Login)
		authGroup.GET("/users", authHandler.ListUsers)
		authGroup.GET("/profile/:id", authHandler.Profile)
	}

	postsGroup := r.Group("/posts")
	{
		postsGroup.GET("", postsHandler.ListPosts)
		postsGroup.POST("", authMiddleware.RequireAuth(), middlewares.RequireJSON(), postsHandler.CreatePost)
		postsGroup.GET("/:userId", postsHandler.ListUserPosts)
	}

	r.NoRoute(handlers.NotFoundRoute)

	return r
}
