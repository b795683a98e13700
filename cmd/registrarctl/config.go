package main

import (
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/internal/repository"
	"github.com/bailakids/registration-api/internal/service"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change ACTIVE_SESSION and REGISTRATION_OPEN",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			items, err := service.NewConfigurationService(repository.NewConfigurationRepository(b.db), a.logger).List(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", item.Key, item.Value)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Change a setting",
		Example: "  registrarctl config set REGISTRATION_OPEN true\n  registrarctl config set ACTIVE_SESSION SPRING_2026",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			actor := &models.JWTClaims{Email: "registrarctl", Role: models.RoleAdmin}
			if u, err := user.Current(); err == nil {
				actor.Email = "registrarctl:" + u.Username
			}
			item, err := service.NewConfigurationService(repository.NewConfigurationRepository(b.db), a.logger).
				Update(cmd.Context(), args[0], args[1], actor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if item.Previous != nil && *item.Previous != item.Value {
				fmt.Fprintf(out, "%s: %s -> %s\n", item.Key, *item.Previous, item.Value)
			} else {
				fmt.Fprintf(out, "%s=%s\n", item.Key, item.Value)
			}
			fmt.Fprintf(out, "running servers pick this up within %s\n", b.cfg.Settings.CacheTTL)
			return nil
		},
	})
	return cmd
}
