package api

import (
	"time"

	"github.com/lysyi3m/jsonfeed-comb/app/database"
	"github.com/lysyi3m/jsonfeed-comb/app/feed"
	"github.com/lysyi3m/jsonfeed-comb/app/tasks"
)

// FeedURLFunc returns the public address of a site's feed.
type FeedURLFunc func(siteName string) string

type Handler struct {
	siteRepo    database.SiteRepository
	postRepo    database.PostRepository
	configCache *feed.ConfigCache
	filterer    *feed.Filterer
	scheduler   tasks.TaskSchedulerInterface
	feedURL     FeedURLFunc
}

// CreatePostRequest is the body of POST /api/sites/:name/posts.
type CreatePostRequest struct {
	GUID         string     `json:"guid" binding:"required,max=512"`
	PostType     string     `json:"post_type"`
	Title        string     `json:"title"`
	Permalink    string     `json:"permalink" binding:"omitempty,http_url"`
	Excerpt      string     `json:"excerpt"`
	Content      string     `json:"content"`
	ThumbnailURL string     `json:"thumbnail_url" binding:"omitempty,http_url"`
	AuthorName   string     `json:"author_name"`
	AuthorURL    string     `json:"author_url" binding:"omitempty,http_url"`
	Tags         []string   `json:"tags"`
	PublishedAt  *time.Time `json:"published_at"`
	ModifiedAt   *time.Time `json:"modified_at"`
}

func (r CreatePostRequest) toPost(postType string) database.Post {
	post := database.Post{
		GUID:             r.GUID,
		PostType:         postType,
		Title:            r.Title,
		Permalink:        r.Permalink,
		Excerpt:          r.Excerpt,
		Content:          r.Content,
		ThumbnailURL:     r.ThumbnailURL,
		AuthorName:       r.AuthorName,
		AuthorURL:        r.AuthorURL,
		Tags:             r.Tags,
		ExtractionStatus: database.ExtractionSkipped,
	}
	if r.PublishedAt != nil {
		post.PublishedAt = *r.PublishedAt
	}
	if r.ModifiedAt != nil {
		post.ModifiedAt = *r.ModifiedAt
	}
	return post
}
