package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
)

const postColumns = `id, site_name, guid, post_type, title, permalink, excerpt, content,
	thumbnail_url, author_name, author_url, tags, published_at, modified_at,
	content_hash, extraction_status, created_at, updated_at`

// PostRepo implements PostRepository on SQLite
type PostRepo struct {
	db *DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// GetRecentPosts returns the newest posts of a site. Undated posts sort by creation time.
func (r *PostRepo) GetRecentPosts(siteName string, limit int) ([]Post, error) {
	var rows []postRow
	err := r.db.Select(&rows, `
		SELECT `+postColumns+`
		FROM posts
		WHERE site_name = ?
		ORDER BY CASE WHEN published_at = 0 THEN created_at ELSE published_at END DESC, id DESC
		LIMIT ?
	`, siteName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent posts: %w", err)
	}

	posts := make([]Post, 0, len(rows))
	for _, row := range rows {
		post, err := row.toPost()
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// GetPost returns a single post or nil when it does not exist
func (r *PostRepo) GetPost(siteName, guid string) (*Post, error) {
	var row postRow
	err := r.db.Get(&row, `
		SELECT `+postColumns+`
		FROM posts
		WHERE site_name = ? AND guid = ?
	`, siteName, guid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post, err := row.toPost()
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepo) GetPostCount(siteName string) (int, error) {
	var count int
	if err := r.db.Get(&count, "SELECT COUNT(*) FROM posts WHERE site_name = ?", siteName); err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

// UpsertPost inserts a post or updates the existing one with the same GUID.
// Content that was already extracted from the article page is kept.
func (r *PostRepo) UpsertPost(siteName string, post Post) error {
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	if post.Tags == nil {
		tags = []byte("[]")
	}

	status := post.ExtractionStatus
	if status == "" {
		status = ExtractionPending
	}
	postType := post.PostType
	if postType == "" {
		postType = "post"
	}

	now := time.Now().Unix()
	_, err = r.db.Exec(`
		INSERT INTO posts (
			site_name, guid, post_type, title, permalink, excerpt, content,
			thumbnail_url, author_name, author_url, tags, published_at, modified_at,
			content_hash, extraction_status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (site_name, guid) DO UPDATE SET
			post_type = excluded.post_type,
			title = excluded.title,
			permalink = excluded.permalink,
			excerpt = CASE WHEN posts.extraction_status = 'success' AND excluded.excerpt = '' THEN posts.excerpt ELSE excluded.excerpt END,
			content = CASE WHEN posts.extraction_status = 'success' THEN posts.content ELSE excluded.content END,
			thumbnail_url = CASE WHEN excluded.thumbnail_url = '' THEN posts.thumbnail_url ELSE excluded.thumbnail_url END,
			author_name = excluded.author_name,
			author_url = excluded.author_url,
			tags = excluded.tags,
			published_at = excluded.published_at,
			modified_at = excluded.modified_at,
			content_hash = excluded.content_hash,
			extraction_status = CASE WHEN posts.extraction_status IN ('success', 'failed') THEN posts.extraction_status ELSE excluded.extraction_status END,
			updated_at = excluded.updated_at
	`, siteName, post.GUID, postType, post.Title, post.Permalink, post.Excerpt, post.Content,
		post.ThumbnailURL, post.AuthorName, post.AuthorURL, string(tags),
		toUnix(post.PublishedAt), toUnix(post.ModifiedAt),
		post.ContentHash, status, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert post: %w", err)
	}

	return nil
}

// CheckDuplicate reports whether another post of the site has the same content hash
func (r *PostRepo) CheckDuplicate(siteName, contentHash string) (bool, error) {
	if contentHash == "" {
		return false, nil
	}

	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM posts WHERE site_name = ? AND content_hash = ?", siteName, contentHash)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return count > 0, nil
}

// GetPostsForExtraction returns pending posts that have a permalink to fetch
func (r *PostRepo) GetPostsForExtraction(siteName string, limit int) ([]PostForExtraction, error) {
	var rows []extractionRow
	err := r.db.Select(&rows, `
		SELECT id, permalink
		FROM posts
		WHERE site_name = ?
		  AND extraction_status = 'pending'
		  AND permalink != ''
		ORDER BY published_at DESC, id DESC
		LIMIT ?
	`, siteName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts for extraction: %w", err)
	}

	return lo.Map(rows, func(row extractionRow, _ int) PostForExtraction {
		return PostForExtraction{ID: row.ID, Permalink: row.Permalink}
	}), nil
}

func (r *PostRepo) UpdateExtractionStatus(postID int64, status string, extractedAt time.Time, errorMsg string) error {
	_, err := r.db.Exec(`
		UPDATE posts
		SET extraction_status = ?, extraction_error = ?, extracted_at = ?, updated_at = ?
		WHERE id = ?
	`, status, errorMsg, toUnix(extractedAt), time.Now().Unix(), postID)
	if err != nil {
		return fmt.Errorf("failed to update extraction status: %w", err)
	}
	return nil
}

// UpdateExtractedContent stores extracted article content and marks the post as extracted.
// Empty excerpt or thumbnail leave the stored values untouched.
func (r *PostRepo) UpdateExtractedContent(postID int64, content, excerpt, thumbnailURL string, extractedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE posts
		SET content = ?,
		    excerpt = CASE WHEN ? = '' THEN excerpt ELSE ? END,
		    thumbnail_url = CASE WHEN ? = '' THEN thumbnail_url ELSE ? END,
		    extraction_status = 'success',
		    extraction_error = '',
		    extracted_at = ?,
		    updated_at = ?
		WHERE id = ?
	`, content, excerpt, excerpt, thumbnailURL, thumbnailURL, toUnix(extractedAt), time.Now().Unix(), postID)
	if err != nil {
		return fmt.Errorf("failed to update extracted content: %w", err)
	}
	return nil
}

func (row postRow) toPost() (Post, error) {
	var tags []string
	if row.Tags != "" {
		if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil {
			return Post{}, fmt.Errorf("failed to decode tags of post %d: %w", row.ID, err)
		}
	}

	return Post{
		ID:               row.ID,
		SiteName:         row.SiteName,
		GUID:             row.GUID,
		PostType:         row.PostType,
		Title:            row.Title,
		Permalink:        row.Permalink,
		Excerpt:          row.Excerpt,
		Content:          row.Content,
		ThumbnailURL:     row.ThumbnailURL,
		AuthorName:       row.AuthorName,
		AuthorURL:        row.AuthorURL,
		Tags:             tags,
		PublishedAt:      fromUnix(row.PublishedAt),
		ModifiedAt:       fromUnix(row.ModifiedAt),
		ContentHash:      row.ContentHash,
		ExtractionStatus: row.ExtractionStatus,
		CreatedAt:        fromUnix(row.CreatedAt),
		UpdatedAt:        fromUnix(row.UpdatedAt),
	}, nil
}
