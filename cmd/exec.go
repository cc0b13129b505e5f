package cmd

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"club-system/config"
	"club-system/handlers"
	_ "club-system/migrations"
	"club-system/monitoring"
	"club-system/security"
	"club-system/services"
	"club-system/utils"
)

func Start() error {
	app := pocketbase.New()

	cfg := config.LoadConfig()

	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)

	var notifier *services.Notifier
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		notifier = services.NewNotifier(pubnub.NewPubNub(pnConfig))
	}

	var monitor *monitoring.Monitor
	if cfg.EnableMetrics {
		monitor = monitoring.NewMonitor(redisClient)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			addr := ":" + cfg.MetricsPort
			slog.Info("metrics server listening", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	eventService := services.NewEventService(app, cfg)
	playerService := services.NewPlayerService(app, cfg)
	rosterService := services.NewRosterService(redisClient, eventService, playerService, notifier, monitor)

	eventHandler := handlers.NewEventHandler(eventService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	rosterHandler := handlers.NewRosterHandler(rosterService, playerService)

	limiter := security.NewRateLimiter(redisClient)

	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Roster state follows the event record; deleting an event from
	// the API or the admin dashboard drops its lists.
	app.OnRecordAfterDeleteSuccess("events").BindFunc(func(e *core.RecordEvent) error {
		if err := rosterService.PurgeEvent(context.Background(), e.Record.Id); err != nil {
			slog.Warn("roster purge after event delete failed", "event_id", e.Record.Id, "error", err)
		}
		return e.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		g := se.Router.Group("/api/v1")

		// Event endpoints
		g.GET("/events", eventHandler.ListEvents)
		g.POST("/events", eventHandler.CreateEvent)
		g.GET("/events/{eventId}", eventHandler.GetEvent)
		g.PATCH("/events/{eventId}", eventHandler.UpdateEvent)
		g.DELETE("/events/{eventId}", eventHandler.DeleteEvent)
		g.POST("/events/{eventId}/visibility", eventHandler.ToggleVisibility)
		g.POST("/events/{eventId}/share-code", eventHandler.ShareCode)

		// Roster endpoints
		g.GET("/events/{eventId}/roster", rosterHandler.GetRoster)
		g.POST("/events/{eventId}/join", rosterHandler.Join).
			BindFunc(limiter.Limit("join", int64(cfg.JoinRateLimit), cfg.JoinRateWindow))
		g.POST("/events/{eventId}/leave", rosterHandler.Leave)
		g.POST("/events/{eventId}/promote", rosterHandler.Promote)
		g.POST("/events/{eventId}/demote", rosterHandler.Demote)

		// Test endpoint for wiping an event's roster state
		if cfg.Environment == "development" {
			g.POST("/test/reset-roster/{eventId}", func(e *core.RequestEvent) error {
				eventID := e.Request.PathValue("eventId")
				if err := rosterService.PurgeEvent(e.Request.Context(), eventID); err != nil {
					return apis.NewApiError(503, "Roster store unavailable, please retry", err)
				}
				return e.JSON(200, map[string]string{"message": "roster reset"})
			})
		}

		// Player endpoints
		g.GET("/players/search", playerHandler.SearchPlayer)
		g.GET("/players", playerHandler.ListPlayers)
		g.POST("/players", playerHandler.UpsertPlayer)
		g.DELETE("/players/{playerId}", playerHandler.DeletePlayer)

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return se.Next()
	})

	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		monitor.Stop()
		if err := redisClient.Close(); err != nil {
			slog.Warn("redis close failed", "error", err)
		}
		return e.Next()
	})

	return app.Start()
}
