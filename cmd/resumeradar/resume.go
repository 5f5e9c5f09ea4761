package main

import (
	"context"
	"fmt"

	"resumeradar/internal/db"
	"resumeradar/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var resumeCommand = &cli.Command{
	Name:  "resume",
	Usage: "Inspect stored resumes",
	Subcommands: []*cli.Command{
		{
			Name:      "show",
			Usage:     "Print a resume record",
			ArgsUsage: "<id>",
			Action: func(cCtx *cli.Context) error {
				id := cCtx.Args().First()
				if id == "" {
					return fmt.Errorf("resume id is required")
				}

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

				resume, err := store.NewResumeRepository(pool).Resume(ctx, id)
				if err != nil {
					return err
				}

				// Inline storage puts the whole file in file_url.
				if len(resume.FileURL) > 120 {
					resume.FileURL = resume.FileURL[:120] + "..."
				}

				_, err = pp.Println(resume)
				return err
			},
		},
	},
}
