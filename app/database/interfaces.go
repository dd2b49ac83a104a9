package database

import (
	"time"
)

type SiteRepository interface {
	GetSite(siteName string) (*Site, error)
	GetSiteCount() (int, error)

	UpsertSite(siteName, upstreamURL string) error
	UpdateSiteMetadata(siteName string, title string, homePageURL string, description string, iconURL string, nextFetch time.Time) error
}

type PostForExtraction struct {
	ID        int64
	Permalink string
}

type PostRepository interface {
	GetRecentPosts(siteName string, limit int) ([]Post, error)
	GetPost(siteName, guid string) (*Post, error)
	GetPostCount(siteName string) (int, error)

	UpsertPost(siteName string, post Post) error
	CheckDuplicate(siteName, contentHash string) (bool, error)

	GetPostsForExtraction(siteName string, limit int) ([]PostForExtraction, error)
	UpdateExtractionStatus(postID int64, status string, extractedAt time.Time, errorMsg string) error
	UpdateExtractedContent(postID int64, content, excerpt, thumbnailURL string, extractedAt time.Time) error
}
