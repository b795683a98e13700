package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/builder"
	"github.com/bailakids/registration-api/internal/models"
)

func (a *app) registerCmd() *cobra.Command {
	var (
		form    builder.RegistrationForm
		age     int
		apiURL  string
		timeout time.Duration
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Submit a registration on behalf of a family",
		Example: `  registrarctl register --student "Ana Lopez" --age 5 --parent "Maria Lopez" \
    --phone 281-555-0100 --email maria@example.com --payment Zelle --accept-liability \
    --section sec-mon-A
  registrarctl register ... --location KATY --frequency ONCE_A_WEEK --day Tuesday`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if age > 0 {
				form.Age = strconv.Itoa(age)
			}
			client := newAPIClient(apiURL, timeout)

			var sections []models.SectionAvailability
			if len(form.SectionIDs) > 0 {
				var err error
				if sections, err = client.Sections(cmd.Context()); err != nil {
					return err
				}
			}

			payload, err := builder.BuildRegistration(form, sections)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", payload)
				return nil
			}
			if err := client.Register(cmd.Context(), payload); err != nil {
				return err
			}
			a.logger.Info("registration submitted", zap.String("student", payload.StudentName), zap.Strings("sections", payload.SectionIDs))
			fmt.Fprintln(cmd.OutOrStdout(), "registration submitted")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.StudentName, "student", "", "Student name")
	f.IntVar(&age, "age", 0, "Student age (1-17)")
	f.StringVar(&form.ParentName, "parent", "", "Parent or guardian name")
	f.StringVar(&form.Phone, "phone", "", "Contact phone")
	f.StringVar(&form.Email, "email", "", "Contact email")
	f.StringVar(&form.PaymentMethod, "payment", "", "Cash, Zelle or Check")
	f.BoolVar(&form.LiabilityAccepted, "accept-liability", false, "The guardian accepted the liability waiver")
	f.StringSliceVar(&form.SectionIDs, "section", nil, "Section id (repeat for twice a week)")
	f.StringVar(&form.Location, "location", "", "KATY or SUGARLAND (day-based registration)")
	f.StringVar(&form.Frequency, "frequency", "", "ONCE_A_WEEK or TWICE_A_WEEK (inferred from --section or --day when unset)")
	f.StringVar(&form.Day, "day", "", "Class day for once-a-week registrations")
	f.StringVar(&form.WaiverName, "waiver-name", "", "Name the guardian signed the waiver with")
	f.StringVar(&form.WaiverAddress, "waiver-address", "", "Address the guardian gave on the waiver")
	f.StringVar(&apiURL, "api", "http://localhost:8080/api", "Registration API base URL")
	f.DurationVar(&timeout, "timeout", 15*time.Second, "HTTP timeout")
	f.BoolVar(&dryRun, "dry-run", false, "Print the request body instead of sending it")
	return cmd
}
