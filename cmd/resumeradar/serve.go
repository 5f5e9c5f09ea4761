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

	"resumeradar/internal/db"
	"resumeradar/internal/intake"
	"resumeradar/internal/notify"
	"resumeradar/internal/review"
	"resumeradar/internal/server"
	"resumeradar/internal/storage"
	"resumeradar/internal/store"
	"resumeradar/internal/utils"
	"resumeradar/internal/views"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger := newLogger(config)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)
	s3Client := s3.NewFromConfig(awsConfig)
	sesClient := sesv2.NewFromConfig(awsConfig)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	resumeRepo := store.NewResumeRepository(pool)
	adminRequestRepo := store.NewAdminRequestRepository(pool)

	blobs, err := storage.New(config, s3Client)
	if err != nil {
		return err
	}

	mailer, err := notify.NewMailer(config, logger, sesClient)
	if err != nil {
		return err
	}
	composer := notify.NewComposer(config.SiteURL)

	registry := views.NewRegistry(utils.NanoID()[:8])

	reviews := review.New(logger, resumeRepo, userRepo, adminRequestRepo, mailer, composer, registry)
	uploads := intake.New(logger, blobs, resumeRepo, registry)

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initialize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwks with cache: %w", err)
	}

	srv, err := server.New(config, logger, server.Dependencies{
		CognitoClient:    cognitoClient,
		JWKSCache:        jwkCache,
		JWKSURL:          jwksURL,
		UserRepo:         userRepo,
		ResumeRepo:       resumeRepo,
		AdminRequestRepo: adminRequestRepo,
		Blobs:            blobs,
		Reviews:          reviews,
		Intake:           uploads,
		Mailer:           mailer,
		Composer:         composer,
		Views:            registry,
	})
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
