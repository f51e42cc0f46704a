package main

import (
	"fmt"
	"os"

	"github.com/nabaa/newsroom/internal/app"
	"github.com/nabaa/newsroom/internal/config"
	"github.com/nabaa/newsroom/internal/migration"
	pkglogger "github.com/nabaa/newsroom/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "newsctl",
	Short:         "Newsroom operator tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default configs/config.<APP_ENV>.yaml)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reindexCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	pkglogger.InitStructured(cfg.Env, cfg.Log.Level)
	return cfg, nil
}

// openMigrated opens the configured database and brings the schema up to date
func openMigrated(cfg *config.Config) (*gorm.DB, error) {
	db, err := app.OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := migration.Run(db); err != nil {
		return nil, fmt.Errorf("migrating: %w", err)
	}
	return db, nil
}
