package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/41parallelobari/agenda-prenotazioni/internal/booking"
	bookingHttp "github.com/41parallelobari/agenda-prenotazioni/internal/booking/http"
	"github.com/41parallelobari/agenda-prenotazioni/internal/feed"
	feedHttp "github.com/41parallelobari/agenda-prenotazioni/internal/feed/http"
)

// Config holds the services and settings the router depends on.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	BookingService booking.Service
	FeedService    feed.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Recovery) and registering routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	// Production deployments list the allowed origins explicitly;
	// development allows everything so a local frontend can connect.
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	feedHandler := feedHttp.NewHandler(cfg.FeedService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		bookingHttp.RegisterRoutes(v1, bookingHandler)
		feedHttp.RegisterRoutes(v1, feedHandler)
	}

	return r
}

// splitOrigins parses a comma-separated origin list, dropping empty entries.
func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
