package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamecatalog/backend/internal/admin"
	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/database"
	"gamecatalog/backend/internal/handler"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/metrics"
	"gamecatalog/backend/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	// Swagger imports
	_ "gamecatalog/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Game Catalog API
// @version         1.0
// @description     Games tagged with an admin-managed taxonomy, with code-based admin access.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	root := &cobra.Command{
		Use:           "catalog-server",
		Short:         "Game catalog API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(); err != nil {
				return err
			}
			cfg := config.AppConfig
			logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				// Connect migrates before returning.
				db, err := database.Connect(config.AppConfig.DatabaseURL)
				if err != nil {
					return err
				}
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
				return nil
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("Server exited with error")
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg := config.AppConfig

	codes, err := cfg.AdminCodeTable()
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		logrus.Warn("No admin codes configured; catalog mutations will be rejected")
	}

	// Connect to the database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	metrics.Init()

	users := store.NewUserStore(db)
	games := store.NewGameStore(db)
	tags := store.NewTagStore(db)
	events := hub.NewHub()
	gate := admin.NewGate(users, admin.CodeTable(codes))

	h := handler.New(
		catalog.NewQueryService(games, tags),
		catalog.NewMutationService(games, tags, gate, events),
		gate,
		auth.NewService(users, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour),
		events,
	)

	router := handler.NewRouter(h, cfg.JWTSecret)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end with the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", cfg.ServerAddr).Info("Server is running")
		logrus.Infof("Swagger UI is available at http://localhost%s/swagger/index.html", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
