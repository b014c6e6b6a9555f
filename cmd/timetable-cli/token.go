package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
)

func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the generation endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			tokens := service.NewTokenService(service.TokenConfig{
				Secret: cfg.Auth.Secret,
				TTL:    cfg.Auth.TokenTTL,
				Issuer: cfg.Auth.Issuer,
			})
			token, expiresAt, err := tokens.Issue(userID, models.UserRole(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Subject of the token (required)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleCoordinator), "Role: ADMIN, COORDINATOR or FACULTY")
	_ = cmd.MarkFlagRequired("user")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		role = strings.ToUpper(strings.TrimSpace(role))
		switch models.UserRole(role) {
		case models.RoleAdmin, models.RoleCoordinator, models.RoleFaculty:
			return nil
		default:
			return fmt.Errorf("invalid --role %q", role)
		}
	}

	return cmd
}
