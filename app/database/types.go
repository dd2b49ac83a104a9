package database

import (
	"time"
)

type Site struct {
	Name          string // Configuration site identifier derived from filename
	UpstreamURL   string
	Title         string // Metadata below comes from the upstream feed
	HomePageURL   string
	Description   string
	IconURL       string
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Post struct {
	ID               int64
	SiteName         string
	GUID             string
	PostType         string
	Title            string
	Permalink        string
	Excerpt          string
	Content          string // rendered HTML
	ThumbnailURL     string
	AuthorName       string
	AuthorURL        string
	Tags             []string
	PublishedAt      time.Time // zero when unknown
	ModifiedAt       time.Time
	ContentHash      string
	ExtractionStatus string // pending, success, failed, skipped
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const (
	ExtractionPending = "pending"
	ExtractionSuccess = "success"
	ExtractionFailed  = "failed"
	ExtractionSkipped = "skipped"
)

type siteRow struct {
	Name          string `db:"name"`
	UpstreamURL   string `db:"upstream_url"`
	Title         string `db:"title"`
	HomePageURL   string `db:"home_page_url"`
	Description   string `db:"description"`
	IconURL       string `db:"icon_url"`
	LastFetchedAt *int64 `db:"last_fetched_at"`
	NextFetchAt   *int64 `db:"next_fetch_at"`
	CreatedAt     int64  `db:"created_at"`
	UpdatedAt     int64  `db:"updated_at"`
}

type postRow struct {
	ID               int64  `db:"id"`
	SiteName         string `db:"site_name"`
	GUID             string `db:"guid"`
	PostType         string `db:"post_type"`
	Title            string `db:"title"`
	Permalink        string `db:"permalink"`
	Excerpt          string `db:"excerpt"`
	Content          string `db:"content"`
	ThumbnailURL     string `db:"thumbnail_url"`
	AuthorName       string `db:"author_name"`
	AuthorURL        string `db:"author_url"`
	Tags             string `db:"tags"`
	PublishedAt      int64  `db:"published_at"`
	ModifiedAt       int64  `db:"modified_at"`
	ContentHash      string `db:"content_hash"`
	ExtractionStatus string `db:"extraction_status"`
	CreatedAt        int64  `db:"created_at"`
	UpdatedAt        int64  `db:"updated_at"`
}

type extractionRow struct {
	ID        int64  `db:"id"`
	Permalink string `db:"permalink"`
}

func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func fromNullUnix(sec *int64) *time.Time {
	if sec == nil || *sec == 0 {
		return nil
	}
	t := time.Unix(*sec, 0).UTC()
	return &t
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
