package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bailakids/registration-api/internal/models"
	"github.com/bailakids/registration-api/internal/repository"
	"github.com/bailakids/registration-api/internal/service"
)

func (a *app) backfillCmd() *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "backfill-enrollments",
		Short: "Enroll day-based registrations into the first matching section",
		Long: `For every student registered by weekday in the session, create an ACTIVE
enrollment in the lowest-labelled active section on that studio weekday.
Pairs that are already enrolled are skipped, so the command can be rerun.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			target := models.Session(strings.ToUpper(strings.TrimSpace(session)))
			if target == "" {
				if target, err = b.settings.ActiveSession(cmd.Context()); err != nil {
					return err
				}
			} else if _, ok := models.ParseSession(string(target)); !ok {
				return fmt.Errorf("unknown session %q", session)
			}

			svc := service.NewBackfillService(b.students, b.sections, repository.NewEnrollmentRepository(b.db), b.catalog, a.logger)
			report, err := svc.Run(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session %s: %d students, %d enrollments created, %d already present, %d without a section\n",
				report.Session, report.Students, report.Created, report.Existing, report.Unmatched)
			return nil
		},
	}
	cmd.Flags().StringVar(&session, "session", "", "Session to backfill (defaults to ACTIVE_SESSION)")
	return cmd
}
