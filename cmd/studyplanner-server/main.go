package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/studyplanner/internal/bootstrap"
	"github.com/at-ishikawa/studyplanner/internal/config"
	"github.com/at-ishikawa/studyplanner/internal/reminder"
	"github.com/at-ishikawa/studyplanner/internal/server"
	"github.com/at-ishikawa/studyplanner/internal/storage"
	"github.com/at-ishikawa/studyplanner/internal/tracker"
)

var (
	configFile     string
	enableReminder bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "studyplanner-server",
		Short:         "Study planner HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&enableReminder, "reminder", false, "also send the daily pending review digest of user.id")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	repos, closer, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("storage.Open() > %w", err)
	}
	app.AddShutdownHook(func(context.Context) error {
		return closer.Close()
	})

	service, err := storage.NewService(cfg, repos)
	if err != nil {
		_ = closer.Close()
		return fmt.Errorf("storage.NewService() > %w", err)
	}

	if enableReminder {
		scheduler, err := startReminder(ctx, cfg, service)
		if err != nil {
			_ = closer.Close()
			return err
		}
		app.AddShutdownHook(scheduler.Stop)
	}

	srv := newHTTPServer(cfg, service)
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server", "addr", srv.Addr, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func newHTTPServer(cfg *config.Config, service *tracker.Service) *http.Server {
	path, h := server.NewHandler(service)

	mux := http.NewServeMux()
	mux.Handle(path, h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.CORSMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}
}

// startReminder schedules the daily digest of user.id and starts the scheduler.
func startReminder(ctx context.Context, cfg *config.Config, service *tracker.Service) (*reminder.Scheduler, error) {
	loc, err := storage.Location(cfg)
	if err != nil {
		return nil, err
	}

	notifiers := []reminder.Notifier{reminder.NewLogNotifier(slog.Default())}
	if cfg.Reminder.WebhookURL != "" {
		notifiers = append(notifiers, reminder.NewWebhookNotifier(cfg.Reminder.WebhookURL))
	}
	scheduler := reminder.NewScheduler(loc)
	id, err := scheduler.ScheduleDaily(ctx, cfg.Reminder.Time, reminder.NewJob(service, cfg.User.ID, notifiers...))
	if err != nil {
		return nil, fmt.Errorf("scheduler.ScheduleDaily() > %w", err)
	}
	scheduler.Start()
	slog.Default().Info("reminder scheduled", "user_id", cfg.User.ID, "time", cfg.Reminder.Time, "next", scheduler.Next(id))
	return scheduler, nil
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
