package tasks

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/jsonfeed-comb/app/database"
	"github.com/lysyi3m/jsonfeed-comb/app/feed"
)

// ImportUpstreamTask fetches a site's upstream RSS, Atom or JSON feed and
// stores its entries as posts.
type ImportUpstreamTask struct {
	Task
	SiteConfig *feed.Config
	httpClient *http.Client
	parser     *feed.Parser
	siteRepo   database.SiteRepository
	postRepo   database.PostRepository
	userAgent  string
}

func NewImportUpstreamTask(siteName string, siteConfig *feed.Config, httpClient *http.Client, parser *feed.Parser, siteRepo database.SiteRepository, postRepo database.PostRepository, userAgent string) *ImportUpstreamTask {
	return &ImportUpstreamTask{
		Task:       NewTask(TaskTypeImportUpstream, siteName),
		SiteConfig: siteConfig,
		httpClient: httpClient,
		parser:     parser,
		siteRepo:   siteRepo,
		postRepo:   postRepo,
		userAgent:  userAgent,
	}
}

func (t *ImportUpstreamTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SiteConfig.HasUpstream() {
		slog.Debug("Upstream disabled, skipping", "site", t.SiteName)
		return nil
	}

	timeout := time.Duration(t.SiteConfig.Upstream.Timeout) * time.Second
	data, err := fetch(ctx, t.httpClient, t.SiteConfig.Upstream.URL, t.userAgent, timeout, "")
	if err != nil {
		return fmt.Errorf("failed to fetch upstream feed: %w", err)
	}

	metadata, entries, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse upstream feed: %w", err)
	}

	// The site row must exist before posts reference it.
	if err := t.siteRepo.UpsertSite(t.SiteConfig.Name, t.SiteConfig.Upstream.URL); err != nil {
		return fmt.Errorf("failed to register site: %w", err)
	}

	nextFetch := time.Now().UTC().Add(time.Duration(t.SiteConfig.Upstream.RefreshInterval) * time.Second)
	err = t.siteRepo.UpdateSiteMetadata(t.SiteName, metadata.Title, metadata.Link, metadata.Description, metadata.ImageURL, nextFetch)
	if err != nil {
		return fmt.Errorf("failed to store site metadata: %w", err)
	}

	duplicateCount := 0
	skippedCount := 0
	storedCount := 0

	for _, entry := range entries {
		if entry.GUID == "" {
			skippedCount++
			continue
		}

		isDuplicate, err := t.postRepo.CheckDuplicate(t.SiteName, entry.ContentHash)
		if err != nil {
			return fmt.Errorf("failed to check for duplicates: %w", err)
		}
		if isDuplicate {
			duplicateCount++
			continue
		}

		if err := t.postRepo.UpsertPost(t.SiteName, t.toPost(entry)); err != nil {
			return fmt.Errorf("failed to store post: %w", err)
		}
		storedCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"site", t.SiteName,
		"duration", t.GetDuration(),
		"total", len(entries),
		"duplicates", duplicateCount,
		"skipped", skippedCount,
		"stored", storedCount)

	return nil
}

func (t *ImportUpstreamTask) toPost(entry feed.Entry) database.Post {
	post := database.Post{
		GUID:             entry.GUID,
		PostType:         t.SiteConfig.Upstream.PostType,
		Title:            entry.Title,
		Permalink:        entry.Link,
		Excerpt:          entry.Excerpt,
		Content:          cmp.Or(entry.Content, entry.Excerpt),
		ThumbnailURL:     entry.ImageURL,
		AuthorName:       entry.AuthorName,
		Tags:             entry.Categories,
		ContentHash:      entry.ContentHash,
		ExtractionStatus: database.ExtractionSkipped,
	}

	if t.SiteConfig.Upstream.ExtractContent {
		post.ExtractionStatus = database.ExtractionPending
	}

	switch {
	case entry.PublishedAt != nil:
		post.PublishedAt = *entry.PublishedAt
		if entry.UpdatedAt != nil {
			post.ModifiedAt = *entry.UpdatedAt
		}
	case entry.UpdatedAt != nil:
		post.PublishedAt = *entry.UpdatedAt
	}

	return post
}
