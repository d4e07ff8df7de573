package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/room-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/room-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/room-booking-backend/internal/logging"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/room-booking-backend/internal/room"
	roomHttp "github.com/nekogravitycat/room-booking-backend/internal/room/http"
	"github.com/nekogravitycat/room-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/room-booking-backend/internal/user/http"
)

var errRouteNotFound = apperror.New(apperror.KindNotFound, "Route not found")

// Config holds the dependencies needed to build the HTTP router.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *slog.Logger

	// TrustedProxies lists the IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty means the client address is always the connection's remote address.
	TrustedProxies []string

	// RateLimitRPS <= 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int

	// HealthCheck reports whether the backing store is reachable.
	HealthCheck func(ctx context.Context) error

	UserService    user.Service
	RoomService    room.Service
	BookingService booking.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (request id, logging, recovery, CORS, rate limit) and registers routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	logger := logging.Or(cfg.Logger)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(RequestID(), RequestLogger(logger), Recovery())

	if corsCfg, ok := corsConfig(cfg.IsProduction, cfg.ProdOrigins); ok {
		r.Use(cors.New(corsCfg))
	}

	if cfg.RateLimitRPS > 0 {
		r.Use(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Limit())
	}

	r.GET("/health", healthHandler(cfg.HealthCheck))

	// Initialize HTTP handlers for each module (injecting service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService)
	roomHandler := roomHttp.NewHandler(cfg.RoomService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		roomHttp.RegisterRoutes(root, roomHandler)
		bookingHttp.RegisterRoutes(root, bookingHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, errRouteNotFound)
	})

	return r
}

// corsConfig returns the CORS settings. Development allows every origin;
// production allows only PROD_ORIGINS and disables CORS when none are set.
func corsConfig(isProduction bool, prodOrigins string) (cors.Config, bool) {
	config := cors.DefaultConfig()
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", RequestIDHeader}
	config.ExposeHeaders = []string{RequestIDHeader}

	if !isProduction {
		config.AllowAllOrigins = true
		return config, true
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return config, false
	}
	config.AllowOrigins = origins
	return config, true
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx := c.Request.Context()
			if err := check(ctx); err != nil {
				logging.FromContext(ctx).WarnContext(ctx, "health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	}
}
