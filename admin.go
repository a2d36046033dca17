package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/routes"
	"github.com/labcollective/memberhub/utils"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger := initialize()
			if err := routes.Migrate(config.DB); err != nil {
				return fmt.Errorf("AutoMigrate failed: %w", err)
			}
			logger.Info("AutoMigrate successful")
			return nil
		},
	}
}

func adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}
	cmd.AddCommand(adminCreateCommand())
	return cmd
}

func adminCreateCommand() *cobra.Command {
	var req member.UpsertMemberRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin, or promote and update the account with that email",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := initialize()
			if err := routes.Migrate(config.DB); err != nil {
				return fmt.Errorf("AutoMigrate failed: %w", err)
			}

			req.Role = member.RoleAdmin
			service := member.NewMemberService(member.NewMemberRepository(config.DB), utils.NewBcryptHasher(cfg.Auth.BcryptCost))
			admin, err := service.Upsert(req)
			if err != nil {
				return err
			}
			logger.Info("admin ready", "id", admin.ID, "email", admin.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "login password, keeps the existing one when empty")
	cmd.Flags().StringVar(&req.Cohort, "cohort", "", "cohort label")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
