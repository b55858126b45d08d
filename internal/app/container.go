package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/41parallelobari/agenda-prenotazioni/internal/api"
	"github.com/41parallelobari/agenda-prenotazioni/internal/booking"
	"github.com/41parallelobari/agenda-prenotazioni/internal/feed"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction     bool
	ProdOrigins      string
	DBPool           *pgxpool.Pool
	DefaultRooms     []string
	FeedFetchTimeout time.Duration
	Logger           *logrus.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router   *gin.Engine
	Bookings booking.Service
	Feeds    feed.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, cfg.DefaultRooms)

	// Feed Module
	feedRepo := feed.NewPgxRepository(cfg.DBPool)
	fetcher := feed.NewFetcher(cfg.FeedFetchTimeout)
	feedService := feed.NewService(feedRepo, bookingService, fetcher, log)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		BookingService: bookingService,
		FeedService:    feedService,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:   router,
		Bookings: bookingService,
		Feeds:    feedService,
	}
}
