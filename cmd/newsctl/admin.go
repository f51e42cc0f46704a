package main

import (
	"fmt"
	"os"

	"github.com/nabaa/newsroom/internal/migration"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := openMigrated(cfg); err != nil {
			return err
		}
		fmt.Println("Schema is up to date.")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default categories and the bootstrap admin",
	Long: `Insert the default news categories that are missing, then ensure the admin
account named by ADMIN_EMAIL / ADMIN_PASSWORD exists when those are set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openMigrated(cfg)
		if err != nil {
			return err
		}

		n, err := migration.SeedCategories(db)
		if err != nil {
			return err
		}
		fmt.Printf("Inserted %d categor(ies).\n", n)

		email := os.Getenv("ADMIN_EMAIL")
		if email == "" {
			return nil
		}
		user, err := migration.EnsureAdmin(db, email, os.Getenv("ADMIN_PASSWORD"), os.Getenv("ADMIN_NAME"))
		if err != nil {
			return err
		}
		fmt.Printf("Admin ready: %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

var (
	flagAdminEmail    string
	flagAdminPassword string
	flagAdminName     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openMigrated(cfg)
		if err != nil {
			return err
		}
		user, err := migration.EnsureAdmin(db, flagAdminEmail, flagAdminPassword, flagAdminName)
		if err != nil {
			return err
		}
		fmt.Printf("Admin ready: %s (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&flagAdminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&flagAdminPassword, "password", "", "password for a new account (min 8 characters)")
	createAdminCmd.Flags().StringVar(&flagAdminName, "name", "", "display name")
	_ = createAdminCmd.MarkFlagRequired("email")
}
