package main

import (
	"ScholarsBox/internal/auth"
	"ScholarsBox/internal/config"
	"context"
	"errors"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
}

var newAdmin auth.RegisterRequest

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin account",
	Long: `Create an admin account directly in the database. Use it to bootstrap
the first admin; later accounts can be registered through the API.`,
	RunE: runAdminCreate,
}

func init() {
	adminCreateCmd.Flags().StringVar(&newAdmin.Name, "name", "", "Display name")
	adminCreateCmd.Flags().StringVar(&newAdmin.Email, "email", "", "Login email")
	adminCreateCmd.Flags().StringVar(&newAdmin.Password, "password", "", "Login password (min 8 characters)")
	adminCreateCmd.Flags().StringVar(&newAdmin.Role, "role", auth.RoleAdmin, "Role: admin or viewer")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
}

func runAdminCreate(cmd *cobra.Command, args []string) error {
	if err := validator.New().Struct(&newAdmin); err != nil {
		return err
	}

	return withDatabase(cmd.Context(), func(ctx context.Context, c *config.MongoDBClient) error {
		service := auth.NewAdminService(auth.NewAdminRepository(c.Database), nil)
		admin, err := service.Register(ctx, newAdmin)
		if errors.Is(err, auth.ErrAdminExists) {
			color.Yellow("Admin %s already exists", newAdmin.Email)
			return err
		}
		if err != nil {
			return err
		}
		color.Green("Created %s %s (%s)", admin.Role, admin.Email, admin.ID.Hex())
		return nil
	})
}
