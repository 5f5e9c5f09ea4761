package main

import (
	"context"
	"fmt"

	"resumeradar/internal/db"
	"resumeradar/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var adminCommand = &cli.Command{
	Name:  "admin",
	Usage: "Manage administrator access",
	Subcommands: []*cli.Command{
		{
			Name:  "grant",
			Usage: "Give a user admin access",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user-id", Usage: "Cognito subject of the user", Required: true},
			},
			Action: func(cCtx *cli.Context) error {
				return setAdmin(cCtx, true)
			},
		},
		{
			Name:  "revoke",
			Usage: "Remove a user's admin access",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "user-id", Usage: "Cognito subject of the user", Required: true},
			},
			Action: func(cCtx *cli.Context) error {
				return setAdmin(cCtx, false)
			},
		},
	},
}

func setAdmin(cCtx *cli.Context, isAdmin bool) error {
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

	userID := cCtx.String("user-id")
	if err := store.NewUserRepository(pool).SetAdmin(ctx, userID, isAdmin); err != nil {
		return fmt.Errorf("failed to update admin flag for %s: %w", userID, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"is_admin": isAdmin,
	}).Info("admin flag updated")

	return nil
}
