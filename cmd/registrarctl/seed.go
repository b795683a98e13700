package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bailakids/registration-api/internal/service"
)

func (a *app) seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or update class sections from a YAML file",
		Example: `  registrarctl seed --file deploy/sections.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open seed file: %w", err)
			}
			defer f.Close() //nolint:errcheck

			seed, err := service.ParseSectionSeed(f)
			if err != nil {
				return err
			}

			b, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			sections, err := service.NewSeedService(b.sections, b.catalog, a.logger).Seed(cmd.Context(), seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d sections\n", len(sections))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the sections YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
