package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lysyi3m/jsonfeed-comb/app/database"
	"github.com/lysyi3m/jsonfeed-comb/app/feed"
)

// ExtractContentTask replaces the content of pending posts with the article
// extracted from their permalink.
type ExtractContentTask struct {
	Task
	SiteConfig       *feed.Config
	httpClient       *http.Client
	contentExtractor *feed.ContentExtractor
	postRepo         database.PostRepository
	userAgent        string
}

func NewExtractContentTask(siteName string, siteConfig *feed.Config, httpClient *http.Client, contentExtractor *feed.ContentExtractor, postRepo database.PostRepository, userAgent string) *ExtractContentTask {
	return &ExtractContentTask{
		Task:             NewTask(TaskTypeExtractContent, siteName),
		SiteConfig:       siteConfig,
		httpClient:       httpClient,
		contentExtractor: contentExtractor,
		postRepo:         postRepo,
		userAgent:        userAgent,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SiteConfig.Upstream.ExtractContent {
		slog.Debug("Content extraction disabled for site", "site", t.SiteName)
		return nil
	}

	posts, err := t.postRepo.GetPostsForExtraction(t.SiteName, t.SiteConfig.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to get posts for content extraction: %w", err)
	}

	if len(posts) == 0 {
		slog.Debug("No posts need content extraction", "site", t.SiteName)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, post := range posts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractContentForPost(ctx, post); err != nil {
			slog.Error("Failed to extract content for post", "post_id", post.ID, "url", post.Permalink, "error", err)
			errorCount++

			err = t.postRepo.UpdateExtractionStatus(post.ID, database.ExtractionFailed, time.Now().UTC(), err.Error())
			if err != nil {
				slog.Error("Failed to update content extraction status", "post_id", post.ID, "error", err)
			}
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"site", t.SiteName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extractContentForPost(ctx context.Context, post database.PostForExtraction) error {
	if post.Permalink == "" {
		return fmt.Errorf("post has no permalink")
	}

	timeout := time.Duration(t.SiteConfig.Upstream.Timeout) * time.Second
	data, err := fetch(ctx, t.httpClient, post.Permalink, t.userAgent, timeout, "text/html")
	if err != nil {
		return fmt.Errorf("failed to fetch article content: %w", err)
	}

	extraction, err := t.contentExtractor.Run(data, post.Permalink)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	err = t.postRepo.UpdateExtractedContent(post.ID, extraction.Content, extraction.Excerpt, extraction.ImageURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}

	slog.Debug("Content extracted successfully", "post_id", post.ID, "url", post.Permalink, "content_length", len(extraction.Content))
	return nil
}
