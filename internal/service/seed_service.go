package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bailakids/registration-api/internal/models"
	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

// SectionSeedFile is the YAML document accepted by `registrarctl seed`.
type SectionSeedFile struct {
	Session  string        `yaml:"session"`
	Sections []SectionSeed `yaml:"sections"`
}

// SectionSeed describes one class section.
type SectionSeed struct {
	Location   string `yaml:"location"`
	Day        string `yaml:"day"`
	Label      string `yaml:"label"`
	Session    string `yaml:"session"`
	Capacity   int    `yaml:"capacity"`
	PriceCents int    `yaml:"priceCents"`
	StartDate  string `yaml:"startDate"`
	StartTime  string `yaml:"startTime"`
	EndTime    string `yaml:"endTime"`
	Active     *bool  `yaml:"active"`
}

// ParseSectionSeed decodes a seed document. Unknown keys are rejected.
func ParseSectionSeed(r io.Reader) (*SectionSeedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file SectionSeedFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return &file, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &file, nil
}

type sectionUpserter interface {
	Upsert(ctx context.Context, section *models.ClassSection) error
}

// SeedService loads class sections into the catalog.
type SeedService struct {
	sections sectionUpserter
	catalog  sectionsInvalidator
	logger   *zap.Logger
}

// NewSeedService constructs a SeedService. catalog may be nil.
func NewSeedService(sections sectionUpserter, catalog sectionsInvalidator, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{sections: sections, catalog: catalog, logger: logger}
}

// Seed validates every entry before writing any, then upserts them in file order.
func (s *SeedService) Seed(ctx context.Context, file *SectionSeedFile) ([]models.ClassSection, error) {
	if file == nil || len(file.Sections) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "seed file has no sections")
	}
	sections := make([]models.ClassSection, 0, len(file.Sections))
	for i, entry := range file.Sections {
		section, err := entry.toSection(file.Session)
		if err != nil {
			return nil, appErrors.Clonef(appErrors.ErrValidation, "sections[%d]: %v", i, err)
		}
		sections = append(sections, section)
	}

	for i := range sections {
		if err := s.sections.Upsert(ctx, &sections[i]); err != nil {
			return nil, appErrors.Internal(err, "failed to seed sections")
		}
		s.logger.Info("section seeded",
			zap.String("section_id", sections[i].ID),
			zap.String("location", string(sections[i].Location)),
			zap.String("day", string(sections[i].Day)),
			zap.String("label", sections[i].Label),
		)
	}
	if s.catalog != nil {
		s.catalog.InvalidateSections(ctx)
	}
	return sections, nil
}

func (e SectionSeed) toSection(defaultSession string) (models.ClassSection, error) {
	loc := models.Location(strings.ToUpper(strings.TrimSpace(e.Location)))
	if !loc.Valid() {
		return models.ClassSection{}, fmt.Errorf("invalid location %q", e.Location)
	}
	day := models.Day(strings.TrimSpace(e.Day))
	if !day.Valid() {
		return models.ClassSection{}, fmt.Errorf("invalid day %q", e.Day)
	}
	label := strings.ToUpper(strings.TrimSpace(e.Label))
	if label == "" {
		return models.ClassSection{}, fmt.Errorf("label required")
	}
	rawSession := e.Session
	if rawSession == "" {
		rawSession = defaultSession
	}
	session, ok := models.ParseSession(strings.ToUpper(strings.TrimSpace(rawSession)))
	if !ok {
		return models.ClassSection{}, fmt.Errorf("invalid session %q", rawSession)
	}
	if e.Capacity <= 0 {
		return models.ClassSection{}, fmt.Errorf("capacity must be positive")
	}
	if e.PriceCents < 0 {
		return models.ClassSection{}, fmt.Errorf("priceCents must not be negative")
	}

	section := models.ClassSection{
		Location:   loc,
		Day:        day,
		Label:      label,
		Session:    session,
		Capacity:   e.Capacity,
		PriceCents: e.PriceCents,
		IsActive:   e.Active == nil || *e.Active,
	}
	if e.StartDate != "" {
		start, err := time.Parse("2006-01-02", e.StartDate)
		if err != nil {
			return models.ClassSection{}, fmt.Errorf("invalid startDate %q", e.StartDate)
		}
		if start.Weekday() != day.Weekday() {
			return models.ClassSection{}, fmt.Errorf("startDate %s is not a %s", e.StartDate, day)
		}
		section.StartDate = &start
	}
	if e.StartTime != "" {
		v := e.StartTime
		section.StartTime = &v
	}
	if e.EndTime != "" {
		v := e.EndTime
		section.EndTime = &v
	}
	return section, nil
}
