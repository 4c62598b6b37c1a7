package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/attachment"
	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/config"
	"github.com/abduss/pressroom/internal/server"
	"github.com/abduss/pressroom/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(cfg config.Config, logg *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg, logg)
		},
	}
}

func runServe(parent context.Context, cfg config.Config, logg *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.AdminPassword == "" {
		logg.Warn("ADMIN_PASSWORD is empty; every mutation will be rejected")
	}

	content, err := openContentStore(ctx, cfg)
	if err != nil {
		logg.Fatal("connect content store", zap.String("driver", cfg.ContentStore.Driver), zap.Error(err))
	}
	defer content.close()

	if cfg.ContentStore.AutoMigrate {
		if err := storage.MigrateUp(ctx, content.db, cfg.ContentStore.Driver); err != nil {
			logg.Fatal("apply migrations", zap.Error(err))
		}
	}

	store, closeStore, err := openObjectStore(ctx, cfg)
	if err != nil {
		logg.Fatal("connect object store", zap.String("driver", cfg.ObjectStore.Driver), zap.Error(err))
	}
	defer closeStore()

	verifier := auth.NewVerifier(cfg.Auth.AdminPassword)
	announcements := announcement.NewService(content.repo, verifier, cfg.Cache.TTL, cfg.Cache.Size)
	attachments := attachment.NewService(verifier, store, cfg.Upload.MaxAttachmentBytes)

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.Dependencies{
		Config:        cfg,
		Logger:        logg,
		ContentStore:  announcements,
		ObjectStore:   store,
		Verifier:      verifier,
		Announcements: announcements,
		Attachments:   attachments,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("pressroom API listening",
			zap.String("addr", cfg.Server.Address()),
			zap.String("content_store", cfg.ContentStore.Driver),
			zap.String("object_store", cfg.ObjectStore.Driver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logg.Info("shutting down gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("shutdown", zap.Error(err))
		return err
	}
	return nil
}
