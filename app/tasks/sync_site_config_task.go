package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/jsonfeed-comb/app/database"
	"github.com/lysyi3m/jsonfeed-comb/app/feed"
)

// SyncSiteConfigTask registers a configured site in the database.
type SyncSiteConfigTask struct {
	Task
	SiteConfig *feed.Config
	siteRepo   database.SiteRepository
}

func NewSyncSiteConfigTask(siteName string, siteConfig *feed.Config, siteRepo database.SiteRepository) *SyncSiteConfigTask {
	return &SyncSiteConfigTask{
		Task:       NewTask(TaskTypeSyncSiteConfig, siteName),
		SiteConfig: siteConfig,
		siteRepo:   siteRepo,
	}
}

func (t *SyncSiteConfigTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.siteRepo.UpsertSite(t.SiteConfig.Name, t.SiteConfig.Upstream.URL); err != nil {
		return fmt.Errorf("failed to sync site config to database: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"site", t.SiteName,
		"duration", t.GetDuration())

	return nil
}
