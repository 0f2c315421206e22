package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/nekogravitycat/shareit-backend/internal/api/mw"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	itemHttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	requestHttp "github.com/nekogravitycat/shareit-backend/internal/itemrequest/http"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// Config holds the handlers and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	JWTManager *auth.JWTManager

	UserHandler    *userHttp.UserHandler
	ItemHandler    *itemHttp.Handler
	RequestHandler *requestHttp.Handler
	BookingHandler *bookingHttp.Handler

	RateLimitRPS   float64
	RateLimitBurst int
	SearchCache    *gocache.Cache
	SearchCacheTTL time.Duration

	// Metrics is installed ahead of routing when set.
	Metrics gin.HandlerFunc
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics)
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.Use(mw.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	searchStore := cfg.SearchCache
	if searchStore == nil {
		searchStore = mw.NewStore(cfg.SearchCacheTTL)
	}
	searchCache := mw.Cache(searchStore, cfg.SearchCacheTTL)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, cfg.UserHandler, authMiddleware)
		itemHttp.RegisterRoutes(v1, cfg.ItemHandler, authMiddleware, searchCache)
		requestHttp.RegisterRoutes(v1, cfg.RequestHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, cfg.BookingHandler, authMiddleware)
	}

	return r
}

func allowedOrigins(cfg Config) []string {
	if !cfg.IsProduction {
		return []string{"http://localhost:3000", "http://localhost:8081"}
	}

	var origins []string
	for _, o := range strings.Split(cfg.ProdOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
