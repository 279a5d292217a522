package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/thejerf/suture/v4"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/HSouheill/storefront_backend/cache"
	"github.com/HSouheill/storefront_backend/config"
	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/repositories"
	"github.com/HSouheill/storefront_backend/services"
	"github.com/HSouheill/storefront_backend/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logging.Info().Msg(".env file not found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := config.ConnectDB(ctx, cfg.Mongo)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	db := client.Database(cfg.Mongo.Database)
	config.EnsureIndexes(ctx, db)

	ext := Externals{
		Cache: cache.New(config.ConnectRedis(ctx, cfg.Redis)),
		Health: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx, readpref.Primary())
		},
	}

	fcm, err := firebaseMessaging(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("firebase unavailable; push notifications disabled")
	}
	ext.FCM = fcm
	// A nil *SMTPMailer must not become a non-nil interface.
	if mailer := utils.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From); mailer != nil {
		ext.Mailer = mailer
	}

	server := newApp(cfg, Stores{
		Accounts:      repositories.NewAccountRepository(db),
		Categories:    repositories.NewCategoryRepository(db),
		Users:         repositories.NewUserRepository(db),
		Orders:        repositories.NewOrderRepository(db),
		Notifications: repositories.NewNotificationRepository(db),
		Logs:          repositories.NewLogRepository(db),
		Blog:          repositories.NewBlogRepository(db),
		Tickets:       repositories.NewTicketRepository(db),
		Content:       repositories.NewContentRepository(db),
		Settings:      repositories.NewSettingsRepository(db),
	}, ext)

	sup := suture.New("storefront", suture.Spec{
		EventHook: supervisorEvents,
		Timeout:   10 * time.Second,
	})
	for _, svc := range server.background {
		sup.Add(svc)
	}
	sup.Add(&httpService{server: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}})

	logging.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := sup.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor stopped")
	}
	logging.Info().Msg("server stopped")
}

// firebaseMessaging returns the FCM client, or nil when push is not configured.
func firebaseMessaging(ctx context.Context, cfg *config.Config) (services.FCMSender, error) {
	app, err := config.InitFirebase(ctx, cfg.Firebase)
	if err != nil || app == nil {
		return nil, err
	}
	fcm, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return fcm, nil
}

func supervisorEvents(e suture.Event) {
	ev := logging.Warn()
	if e.Type() == suture.EventTypeBackoff || e.Type() == suture.EventTypeResume {
		ev = logging.Info()
	}
	ev.Fields(e.Map()).Msg(e.String())
}

// httpService runs the API server under the supervisor and shuts it down
// gracefully when the supervisor stops.
type httpService struct {
	server *http.Server
}

func (h *httpService) String() string { return "http-server" }

func (h *httpService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}
