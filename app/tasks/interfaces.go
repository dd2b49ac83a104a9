package tasks

import (
	"github.com/lysyi3m/jsonfeed-comb/app/feed"
)

// TaskSchedulerInterface is what the server needs from the background worker pool.
//
//	scheduler := NewScheduler(configCache, siteRepo, postRepo, httpClient, parser, contentExtractor)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewImportUpstreamTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	RefreshSite(siteConfig *feed.Config) error
}
