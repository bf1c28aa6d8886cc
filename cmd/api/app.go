package main

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hoaxify/internal/config"
	"hoaxify/internal/lifecycle"
	"hoaxify/internal/middleware"
	"hoaxify/internal/modules/attachment"
	"hoaxify/internal/modules/auth"
	"hoaxify/internal/modules/hoax"
	"hoaxify/internal/modules/sweep"
	jwtsvc "hoaxify/internal/pkg/jwt"
	"hoaxify/internal/repository"
	"hoaxify/internal/storage"
)

// app is everything main runs: the HTTP routes and the background sweeps.
type app struct {
	router     *gin.Engine
	schedulers []*lifecycle.Scheduler
}

func newApp(cfg *config.Config, db *gorm.DB) *app {
	blobs := storage.NewLocal(filepath.Join(cfg.UploadDir, storage.AttachmentDir))

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db, cfg.Sweep.ReservationLease)
	hoaxRepo := repository.NewHoaxRepository(db)

	j := jwtsvc.New(cfg.JWTSecret)

	authHandler := auth.NewHandler(auth.NewService(userRepo, tokenRepo, j, cfg.TokenTTL))
	attachmentHandler := attachment.NewHandler(attachment.NewService(attachmentRepo, blobs))
	hoaxHandler := hoax.NewHandler(hoax.NewService(hoaxRepo, blobs))

	attachmentSweeper := lifecycle.NewAttachmentSweeper(attachmentRepo, blobs, lifecycle.AttachmentSweeperConfig{
		Retention:   cfg.Sweep.AttachmentRetention,
		CallTimeout: cfg.Sweep.CallTimeout,
	})
	tokenSweeper := lifecycle.NewTokenSweeper(tokenRepo, lifecycle.TokenSweeperConfig{
		CallTimeout: cfg.Sweep.CallTimeout,
	})
	sweepHandler := sweep.NewHandler(attachmentSweeper, tokenSweeper)

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.TokenAuth(j, tokenRepo, cfg.TokenTTL))

	v1 := r.Group("/api/1.0")
	{
		// public
		authHandler.RegisterRoutes(v1)
		hoaxHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.RequireAuth("UNAUTHORIZED", "Authentication required"))
		{
			attachmentHandler.RegisterRoutes(protected)
			hoaxHandler.RegisterProtectedRoutes(protected)
		}
	}
	attachmentHandler.RegisterPublicRoutes(r)

	internal := r.Group("/internal")
	internal.Use(middleware.InternalTokenAuth(cfg.InternalToken, cfg.InternalAllowedIPs))
	{
		sweepHandler.RegisterRoutes(internal)
	}

	return &app{
		router: r,
		schedulers: []*lifecycle.Scheduler{
			lifecycle.NewScheduler("attachment-sweep", cfg.Sweep.AttachmentSweepInterval, lifecycle.SweepJob(attachmentSweeper)),
			lifecycle.NewScheduler("token-sweep", cfg.Sweep.TokenSweepInterval, lifecycle.SweepJob(tokenSweeper)),
		},
	}
}
