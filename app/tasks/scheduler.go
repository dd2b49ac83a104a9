package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/jsonfeed-comb/app/cfg"
	"github.com/lysyi3m/jsonfeed-comb/app/database"
	"github.com/lysyi3m/jsonfeed-comb/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	siteRepo         database.SiteRepository
	postRepo         database.PostRepository
	configCache      *feed.ConfigCache
	httpClient       *http.Client
	parser           *feed.Parser
	contentExtractor *feed.ContentExtractor
	userAgent        string
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

func NewScheduler(configCache *feed.ConfigCache, siteRepo database.SiteRepository,
	postRepo database.PostRepository, httpClient *http.Client, parser *feed.Parser,
	contentExtractor *feed.ContentExtractor) *Scheduler {
	cfg := cfg.Get()

	return newScheduler(configCache, siteRepo, postRepo, httpClient, parser, contentExtractor,
		cfg.UserAgent, time.Duration(cfg.SchedulerInterval)*time.Second, cfg.WorkerCount)
}

func newScheduler(configCache *feed.ConfigCache, siteRepo database.SiteRepository,
	postRepo database.PostRepository, httpClient *http.Client, parser *feed.Parser,
	contentExtractor *feed.ContentExtractor, userAgent string, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		siteRepo:         siteRepo,
		postRepo:         postRepo,
		configCache:      configCache,
		httpClient:       httpClient,
		parser:           parser,
		contentExtractor: contentExtractor,
		userAgent:        userAgent,
		interval:         interval,
		workerCount:      workerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// RefreshSite registers the site and, when it has an upstream, imports it right away.
func (s *Scheduler) RefreshSite(siteConfig *feed.Config) error {
	if err := s.EnqueueTask(NewSyncSiteConfigTask(siteConfig.Name, siteConfig, s.siteRepo)); err != nil {
		return fmt.Errorf("failed to enqueue site sync: %w", err)
	}

	if !siteConfig.HasUpstream() {
		return nil
	}

	importTask := NewImportUpstreamTask(siteConfig.Name, siteConfig, s.httpClient, s.parser, s.siteRepo, s.postRepo, s.userAgent)
	if err := s.EnqueueTask(importTask); err != nil {
		return fmt.Errorf("failed to enqueue upstream import: %w", err)
	}

	return nil
}

func (s *Scheduler) enqueueStartupTasks() {
	siteConfigs := s.configCache.GetConfigs()
	if len(siteConfigs) == 0 {
		slog.Debug("No site configurations found")
		return
	}

	slog.Debug("Processing site configurations", "count", len(siteConfigs))

	for _, siteConfig := range siteConfigs {
		if err := s.RefreshSite(siteConfig); err != nil {
			slog.Warn("Failed to enqueue startup tasks", "site", siteConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	siteConfigs := s.configCache.GetUpstreamConfigs()
	if len(siteConfigs) == 0 {
		slog.Debug("No upstream site configurations found")
		return
	}

	slog.Debug("Processing upstream site configurations for task scheduling", "count", len(siteConfigs))

	for _, siteConfig := range siteConfigs {
		site, err := s.siteRepo.GetSite(siteConfig.Name)
		if err != nil {
			slog.Warn("Failed to get site from database, skipping", "site", siteConfig.Name, "error", err)
			continue
		}
		if site == nil {
			slog.Warn("Site not found in database, skipping", "site", siteConfig.Name)
			continue
		}

		now := time.Now().UTC()
		if site.NextFetchAt != nil && site.NextFetchAt.After(now) {
			slog.Debug("Site not due for refresh yet", "site", siteConfig.Name, "next_fetch_at", site.NextFetchAt)
		} else {
			importTask := NewImportUpstreamTask(siteConfig.Name, siteConfig, s.httpClient, s.parser, s.siteRepo, s.postRepo, s.userAgent)
			if err := s.EnqueueTask(importTask); err != nil {
				slog.Warn("Failed to enqueue ImportUpstreamTask", "site", siteConfig.Name, "error", err)
			}
		}

		if siteConfig.Upstream.ExtractContent {
			extractTask := NewExtractContentTask(siteConfig.Name, siteConfig, s.httpClient, s.contentExtractor, s.postRepo, s.userAgent)
			if err := s.EnqueueTask(extractTask); err != nil {
				slog.Warn("Failed to enqueue ExtractContentTask", "site", siteConfig.Name, "error", err)
			}
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if errors.Is(err, context.Canceled) {
		slog.Debug("Scheduler stopped, not retrying task", "type", string(task.GetType()), "id", task.GetID())
		return
	}

	delay, ok := task.NextRetry()
	if !ok {
		slog.Error("Task failed, no retries left", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "last_error", err)
		return
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "site", task.GetSiteName(), "retry_count", task.GetRetryCount(), "delay", delay.String())

	go func() {
		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-time.After(delay):
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}
