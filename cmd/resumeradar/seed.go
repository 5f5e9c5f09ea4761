package main

import (
	"context"
	"fmt"

	"resumeradar/internal/db"
	"resumeradar/internal/seed"
	"resumeradar/internal/storage"
	"resumeradar/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo users and reviewed resumes",
	Action: func(cCtx *cli.Context) error {
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		var s3Client *s3.Client
		if cfg.StorageBackend == "s3" {
			awsConfig, err := loadAWSConfig(ctx)
			if err != nil {
				return err
			}
			s3Client = s3.NewFromConfig(awsConfig)
		}

		blobs, err := storage.New(cfg, s3Client)
		if err != nil {
			return err
		}

		logrus.Info("Seeding users...")
		if err := seed.SeedFakeUsers(ctx, store.NewUserRepository(pool)); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logrus.Info("Seeding resumes...")
		if err := seed.SeedFakeResumes(ctx, store.NewResumeRepository(pool), blobs); err != nil {
			return fmt.Errorf("failed to seed resumes: %w", err)
		}

		logrus.Info("Seed data applied successfully")

		return nil
	},
}
