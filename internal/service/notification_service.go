package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bailakids/registration-api/internal/availability"
	"github.com/bailakids/registration-api/internal/dto"
	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
	applog "github.com/bailakids/registration-api/pkg/logger"
	"github.com/bailakids/registration-api/pkg/mailer"
)

// Raw HTML in rendered markdown is dropped because WithUnsafe is not set.
var emailRenderer = goldmark.New(
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

const confirmationSubject = "Your Baila Kids Registration"

// NotificationConfig holds the studio details printed in emails.
type NotificationConfig struct {
	SchoolName  string
	OwnerEmail  string
	ZelleHandle string
	SendTimeout time.Duration
}

// NotificationService renders and sends registration emails.
type NotificationService struct {
	sender   mailer.Sender
	sections sectionLister
	metrics  *MetricsService
	logger   *zap.Logger
	config   NotificationConfig
}

// NewNotificationService constructs a NotificationService. sections may be nil.
func NewNotificationService(sender mailer.Sender, sections sectionLister, metrics *MetricsService, logger *zap.Logger, cfg NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SchoolName == "" {
		cfg.SchoolName = "Baila Kids"
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &NotificationService{sender: sender, sections: sections, metrics: metrics, logger: logger, config: cfg}
}

// SendConfirmation emails the registrant and the studio owner concurrently and waits for both.
// Without a configured provider it logs and succeeds.
func (s *NotificationService) SendConfirmation(ctx context.Context, req dto.ConfirmationRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return appErrors.Clone(appErrors.ErrMissingFields, "Email is required")
	}
	if s.sender == nil || !s.sender.Enabled() {
		s.logger.Warn("email provider not configured; skipping confirmation", applog.Email("email", email))
		s.metrics.RecordEmail("skipped")
		return nil
	}

	summary := s.summarize(ctx, req)
	registrant, err := renderEmail(s.registrantMarkdown(summary))
	if err != nil {
		return appErrors.Internal(err, "failed to render confirmation email")
	}
	messages := []mailer.Message{{To: []string{email}, Subject: confirmationSubject, HTML: registrant}}

	if owner := strings.TrimSpace(s.config.OwnerEmail); owner != "" {
		notice, err := renderEmail(s.ownerMarkdown(summary))
		if err != nil {
			return appErrors.Internal(err, "failed to render owner notice")
		}
		subject := fmt.Sprintf("New registration: %s (%s)", summary.StudentName, summary.Location)
		messages = append(messages, mailer.Message{To: []string{owner}, Subject: subject, HTML: notice})
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.SendTimeout)
	defer cancel()

	// Plain Group: one failed send must not cancel the other.
	var g errgroup.Group
	errs := make([]error, len(messages))
	for i, msg := range messages {
		i, msg := i, msg
		g.Go(func() error {
			if err := s.sender.Send(ctx, msg); err != nil {
				errs[i] = fmt.Errorf("send to %s: %w", strings.Join(msg.To, ","), err)
				return errs[i]
			}
			return nil
		})
	}
	if g.Wait() != nil {
		err := errors.Join(errs...)
		s.metrics.RecordEmail("failed")
		s.logger.Error("confirmation email failed", applog.Email("email", email), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrEmailDelivery.Code, appErrors.ErrEmailDelivery.Status, appErrors.ErrEmailDelivery.Message)
	}
	s.metrics.RecordEmail("sent")
	return nil
}

type confirmationSummary struct {
	StudentName   string
	ParentName    string
	Email         string
	Phone         string
	Location      string
	Frequency     string
	Days          []string
	FirstClass    string
	PaymentMethod string
	Schedule      []string
	TotalCents    int
}

func (s *NotificationService) summarize(ctx context.Context, req dto.ConfirmationRequest) confirmationSummary {
	sum := confirmationSummary{
		StudentName:   strings.TrimSpace(req.StudentName),
		ParentName:    strings.TrimSpace(req.ParentName),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		Location:      req.Location,
		Frequency:     req.Frequency,
		Days:          req.SelectedDays,
		FirstClass:    req.StartDate,
		PaymentMethod: req.PaymentMethod,
	}

	if len(req.SectionIDs) > 0 && s.sections != nil {
		found, err := s.sections.List(ctx, models.SectionFilter{IDs: req.SectionIDs})
		if err != nil {
			s.logger.Warn("resolve sections for email", zap.Error(err))
			return sum
		}
		chosen := make([]models.ClassSection, 0, len(found))
		sum.Days = nil
		for _, sec := range found {
			chosen = append(chosen, sec.ClassSection)
			sum.Days = append(sum.Days, string(sec.Day))
			sum.Schedule = append(sum.Schedule, scheduleLine(sec.ClassSection))
			if sec.StartDate != nil && sum.FirstClass == "" {
				sum.FirstClass = sec.StartDate.Format("2006-01-02")
			}
		}
		if len(chosen) > 0 {
			sum.Location = string(chosen[0].Location)
			sum.Frequency = string(models.FrequencyForCount(len(chosen)))
		}
		sum.TotalCents = availability.SectionQuote(chosen)
		return sum
	}

	loc := models.Location(req.Location)
	if loc.Valid() && len(req.SelectedDays) > 0 {
		sum.TotalCents = availability.LegacyQuote(loc, models.Frequency(req.Frequency), models.Day(req.SelectedDays[0]))
	}
	return sum
}

func scheduleLine(sec models.ClassSection) string {
	line := fmt.Sprintf("%s, group %s", sec.Day, sec.Label)
	if sec.StartTime != nil && sec.EndTime != nil {
		line += fmt.Sprintf(", %s to %s", *sec.StartTime, *sec.EndTime)
	}
	if sec.StartDate != nil {
		line += " (" + availability.SessionRange(*sec.StartDate, availability.SessionWeeks) + ")"
	}
	return line
}

func (s *NotificationService) registrantMarkdown(sum confirmationSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s Registration Confirmation\n\n", md(s.config.SchoolName))
	if sum.StudentName != "" {
		fmt.Fprintf(&b, "Thank you for registering, %s!\n\n", md(sum.StudentName))
	} else {
		b.WriteString("Thank you for registering!\n\n")
	}
	writeDetails(&b, sum)
	b.WriteString("\n### Payment\n\n")
	b.WriteString(s.paymentInstructions(sum.PaymentMethod))
	b.WriteString("\n")
	return b.String()
}

func (s *NotificationService) ownerMarkdown(sum confirmationSummary) string {
	var b strings.Builder
	b.WriteString("## New registration\n\n")
	fmt.Fprintf(&b, "- **Student:** %s\n", md(sum.StudentName))
	fmt.Fprintf(&b, "- **Parent:** %s\n", md(sum.ParentName))
	fmt.Fprintf(&b, "- **Email:** %s\n", md(sum.Email))
	fmt.Fprintf(&b, "- **Phone:** %s\n", md(sum.Phone))
	writeDetails(&b, sum)
	return b.String()
}

func writeDetails(b *strings.Builder, sum confirmationSummary) {
	fmt.Fprintf(b, "- **Location:** %s\n", md(sum.Location))
	fmt.Fprintf(b, "- **Frequency:** %s\n", md(sum.Frequency))
	fmt.Fprintf(b, "- **Selected days:** %s\n", md(strings.Join(sum.Days, ", ")))
	fmt.Fprintf(b, "- **First class:** %s\n", md(sum.FirstClass))
	fmt.Fprintf(b, "- **Payment method:** %s\n", md(sum.PaymentMethod))
	for _, line := range sum.Schedule {
		fmt.Fprintf(b, "- **Class:** %s\n", md(line))
	}
	if sum.TotalCents > 0 {
		fmt.Fprintf(b, "- **Total:** %s\n", md(formatCents(sum.TotalCents)))
	}
}

func (s *NotificationService) paymentInstructions(method string) string {
	switch models.PaymentMethod(method) {
	case models.PaymentCash:
		return "Please bring cash to your first class."
	case models.PaymentZelle:
		if s.config.ZelleHandle != "" {
			return fmt.Sprintf("Please send your payment by Zelle to **%s** and include the student's name in the memo.", md(s.config.ZelleHandle))
		}
		return "Please send your payment by Zelle and include the student's name in the memo."
	case models.PaymentCheck:
		return fmt.Sprintf("Please bring a check payable to %s to your first class.", md(s.config.SchoolName))
	}
	return "We will contact you about payment before your first class."
}

func renderEmail(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := emailRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "#", `\#`, "|", `\|`, "!", `\!`,
)

// md escapes user input so it renders as literal text.
func md(s string) string {
	return markdownEscaper.Replace(s)
}

func formatCents(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
