package tasks

import (
	"fmt"
	"sync"
	"time"

	"github.com/lysyi3m/jsonfeed-comb/app/database"
)

// MockSiteRepository keeps sites in memory
type MockSiteRepository struct {
	mu    sync.Mutex
	sites map[string]*database.Site
	err   error
}

func NewMockSiteRepository() *MockSiteRepository {
	return &MockSiteRepository{sites: make(map[string]*database.Site)}
}

func (m *MockSiteRepository) GetSite(siteName string) (*database.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sites[siteName], nil
}

func (m *MockSiteRepository) GetSiteCount() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sites), nil
}

func (m *MockSiteRepository) UpsertSite(siteName, upstreamURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	site, ok := m.sites[siteName]
	if !ok {
		site = &database.Site{Name: siteName}
		m.sites[siteName] = site
	}
	site.UpstreamURL = upstreamURL
	return nil
}

func (m *MockSiteRepository) UpdateSiteMetadata(siteName string, title string, homePageURL string, description string, iconURL string, nextFetch time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	site, ok := m.sites[siteName]
	if !ok {
		return fmt.Errorf("site not found: %s", siteName)
	}
	site.Title = title
	site.HomePageURL = homePageURL
	site.Description = description
	site.IconURL = iconURL
	site.NextFetchAt = &nextFetch
	return nil
}

// MockPostRepository keeps posts in memory, keyed by GUID
type MockPostRepository struct {
	mu       sync.Mutex
	posts    map[string]database.Post
	order    []string
	statuses map[int64]string
	content  map[int64]string
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts:    make(map[string]database.Post),
		statuses: make(map[int64]string),
		content:  make(map[int64]string),
	}
}

func (m *MockPostRepository) GetRecentPosts(siteName string, limit int) ([]database.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []database.Post
	for _, guid := range m.order {
		if len(posts) == limit {
			break
		}
		posts = append(posts, m.posts[guid])
	}
	return posts, nil
}

func (m *MockPostRepository) GetPost(siteName, guid string) (*database.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[guid]
	if !ok {
		return nil, nil
	}
	return &post, nil
}

func (m *MockPostRepository) GetPostCount(siteName string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.posts), nil
}

func (m *MockPostRepository) UpsertPost(siteName string, post database.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.GUID]; !ok {
		m.order = append(m.order, post.GUID)
		post.ID = int64(len(m.order))
	} else {
		post.ID = m.posts[post.GUID].ID
	}
	post.SiteName = siteName
	m.posts[post.GUID] = post
	return nil
}

func (m *MockPostRepository) CheckDuplicate(siteName, contentHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, post := range m.posts {
		if contentHash != "" && post.ContentHash == contentHash {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPostRepository) GetPostsForExtraction(siteName string, limit int) ([]database.PostForExtraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var posts []database.PostForExtraction
	for _, guid := range m.order {
		post := m.posts[guid]
		if post.ExtractionStatus == database.ExtractionPending && post.Permalink != "" && len(posts) < limit {
			posts = append(posts, database.PostForExtraction{ID: post.ID, Permalink: post.Permalink})
		}
	}
	return posts, nil
}

func (m *MockPostRepository) UpdateExtractionStatus(postID int64, status string, extractedAt time.Time, errorMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[postID] = status
	return nil
}

func (m *MockPostRepository) UpdateExtractedContent(postID int64, content, excerpt, thumbnailURL string, extractedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[postID] = database.ExtractionSuccess
	m.content[postID] = content
	return nil
}
