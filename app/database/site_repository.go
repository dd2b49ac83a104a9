package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SiteRepo implements SiteRepository on SQLite
type SiteRepo struct {
	db *DB
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(db *DB) *SiteRepo {
	return &SiteRepo{db: db}
}

// GetSite returns the stored site or nil when it has never been synced
func (r *SiteRepo) GetSite(siteName string) (*Site, error) {
	var row siteRow
	err := r.db.Get(&row, `
		SELECT name, upstream_url, title, home_page_url, description, icon_url,
		       last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sites
		WHERE name = ?
	`, siteName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return &Site{
		Name:          row.Name,
		UpstreamURL:   row.UpstreamURL,
		Title:         row.Title,
		HomePageURL:   row.HomePageURL,
		Description:   row.Description,
		IconURL:       row.IconURL,
		LastFetchedAt: fromNullUnix(row.LastFetchedAt),
		NextFetchAt:   fromNullUnix(row.NextFetchAt),
		CreatedAt:     fromUnix(row.CreatedAt),
		UpdatedAt:     fromUnix(row.UpdatedAt),
	}, nil
}

func (r *SiteRepo) GetSiteCount() (int, error) {
	var count int
	if err := r.db.Get(&count, "SELECT COUNT(*) FROM sites"); err != nil {
		return 0, fmt.Errorf("failed to get site count: %w", err)
	}
	return count, nil
}

// UpsertSite registers a site, updating its upstream URL if it already exists
func (r *SiteRepo) UpsertSite(siteName, upstreamURL string) error {
	now := time.Now().Unix()
	_, err := r.db.Exec(`
		INSERT INTO sites (name, upstream_url, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			upstream_url = excluded.upstream_url,
			updated_at = excluded.updated_at
	`, siteName, upstreamURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert site: %w", err)
	}
	return nil
}

// UpdateSiteMetadata stores metadata from the upstream feed and schedules the next fetch
func (r *SiteRepo) UpdateSiteMetadata(siteName string, title string, homePageURL string, description string, iconURL string, nextFetch time.Time) error {
	now := time.Now().Unix()
	res, err := r.db.Exec(`
		UPDATE sites
		SET title = ?, home_page_url = ?, description = ?, icon_url = ?,
		    last_fetched_at = ?, next_fetch_at = ?, updated_at = ?
		WHERE name = ?
	`, title, homePageURL, description, iconURL, now, toUnix(nextFetch), now, siteName)
	if err != nil {
		return fmt.Errorf("failed to update site metadata: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("site not found: %s", siteName)
	}

	return nil
}
