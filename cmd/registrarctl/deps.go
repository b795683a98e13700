package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/internal/repository"
	"github.com/bailakids/registration-api/internal/service"
	"github.com/bailakids/registration-api/pkg/cache"
	"github.com/bailakids/registration-api/pkg/config"
	"github.com/bailakids/registration-api/pkg/database"
)

// backend holds the database-backed collaborators the commands share.
type backend struct {
	cfg      *config.Config
	db       *sqlx.DB
	cacheRep *repository.CacheRepository
	sections *repository.SectionRepository
	students *repository.StudentRepository
	settings *service.SettingsService
	catalog  *service.CatalogService
}

func (a *app) openBackend(ctx context.Context) (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	b := &backend{
		cfg:      cfg,
		db:       db,
		sections: repository.NewSectionRepository(db),
		students: repository.NewStudentRepository(db),
	}

	var sectionsCache *service.CacheService
	if cfg.Sections.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			a.logger.Warn("redis unavailable, cached sections will expire on their own", zap.Error(err))
		} else {
			b.cacheRep = repository.NewCacheRepository(client, a.logger)
			sectionsCache = service.NewCacheService(b.cacheRep, "sections", cfg.Sections.CacheTTL, nil, a.logger)
		}
	}

	b.settings = service.NewSettingsService(repository.NewConfigurationRepository(db), cfg.Settings.CacheTTL, a.logger)
	b.catalog = service.NewCatalogService(b.sections, b.students, b.settings, sectionsCache, a.logger)
	return b, nil
}

func (b *backend) Close() {
	if b.cacheRep != nil {
		_ = b.cacheRep.Close()
	}
	_ = b.db.Close()
}
