// Package main provides the labmatch binary entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yigit/labmatch/internal/bootstrap"
	"github.com/yigit/labmatch/internal/config"
	"github.com/yigit/labmatch/internal/pkg/logger"
	"github.com/yigit/labmatch/internal/pkg/matching"
	"github.com/yigit/labmatch/internal/server"
)

const appName = "labmatch"

func main() {
	if err := rootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Research collaboration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml")), "Config file path (YAML)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending database migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
				if err != nil {
					return err
				}
				_, err = bootstrap.Migrate(cmd.Context(), cfg, lgr)
				return err
			},
		},
		scoreCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, bootstrap.Version)
			},
		},
	)

	return cmd
}

func serve(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(ctx, cfg, lgr)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	if err := srv.Run(ctx); err != nil {
		return err
	}

	lgr.Info().Msg("Application finished gracefully.")
	return nil
}

// scoreCmd scores one student against one project without touching a store
func scoreCmd() *cobra.Command {
	var (
		interests string
		faculty   string
		project   matching.ProjectText
		weights   = matching.DefaultWeights()
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the match score of interests against a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := matching.NewEngine(weights).Explain(interests, project, faculty)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&interests, "interests", "", "Student interests")
	flags.StringVar(&faculty, "faculty-interests", "", "Research interests of the project's faculty")
	flags.StringVar(&project.Title, "title", "", "Project title")
	flags.StringVar(&project.Description, "description", "", "Project description")
	flags.StringVar(&project.TechStack, "tech-stack", "", "Project tech stack")
	flags.StringVar(&project.RequiredSkills, "required-skills", "", "Project required skills")
	flags.IntVar(&weights.Base, "base", weights.Base, "Base score")
	flags.IntVar(&weights.FacultyMatch, "faculty-weight", weights.FacultyMatch, "Award per faculty interest match")
	flags.IntVar(&weights.ProjectMatch, "project-weight", weights.ProjectMatch, "Award per project text match")
	flags.IntVar(&weights.MinContainment, "min-containment", weights.MinContainment, "Shortest keyword matched by containment")

	return cmd
}
