package api

import (
	"cmp"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/jsonfeed-comb/app/database"
	"github.com/lysyi3m/jsonfeed-comb/app/feed"
	"github.com/lysyi3m/jsonfeed-comb/app/tasks"
)

func NewHandler(configCache *feed.ConfigCache, siteRepo database.SiteRepository,
	postRepo database.PostRepository, filterer *feed.Filterer,
	scheduler tasks.TaskSchedulerInterface, feedURL FeedURLFunc) *Handler {
	return &Handler{
		siteRepo:    siteRepo,
		postRepo:    postRepo,
		configCache: configCache,
		filterer:    filterer,
		scheduler:   scheduler,
		feedURL:     feedURL,
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("name"), ".json")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	siteConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Debug("Site configuration not found", "site", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	site, err := h.siteRepo.GetSite(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_site", "site", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	posts, err := h.postRepo.GetRecentPosts(name, siteConfig.MaxItems)
	if err != nil {
		slog.Error("Database error", "operation", "get_posts", "site", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	builder := feed.NewBuilder(feed.WithItemHook(h.filterer.Hook(siteConfig.Filters)))

	f, err := builder.BuildFeed(feed.NewStoredSource(siteConfig, site, posts, h.feedURL(name)))
	if err != nil {
		slog.Error("Feed build error", "site", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(f.Len()))
	c.Header("X-Feed-Name", name)
	if site != nil && site.LastFetchedAt != nil {
		c.Header("X-Last-Updated", site.LastFetchedAt.Format(time.RFC3339))
	}

	c.PureJSON(http.StatusOK, f.Document())
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if siteCount, err := h.siteRepo.GetSiteCount(); err == nil {
		health["sites"] = siteCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListSites(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	sites := make([]map[string]interface{}, 0, len(configs))

	for _, siteConfig := range configs {
		siteInfo := map[string]interface{}{
			"name":      siteConfig.Name,
			"title":     siteConfig.Title,
			"feed_url":  h.feedURL(siteConfig.Name),
			"upstream":  siteConfig.HasUpstream(),
			"max_items": siteConfig.MaxItems,
			"filters":   len(siteConfig.Filters),
		}

		if site, err := h.siteRepo.GetSite(siteConfig.Name); err == nil && site != nil {
			siteInfo["title"] = cmp.Or(siteConfig.Title, site.Title)
			siteInfo["last_fetched_at"] = site.LastFetchedAt
			siteInfo["next_fetch_at"] = site.NextFetchAt
		}

		if postCount, err := h.postRepo.GetPostCount(siteConfig.Name); err == nil {
			siteInfo["post_count"] = postCount
		}

		sites = append(sites, siteInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sites": sites,
		"total": len(sites),
	})
}

func (h *Handler) APIGetSiteDetails(c *gin.Context) {
	name := c.Param("name")

	siteConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
		return
	}

	details := map[string]interface{}{
		"name":        name,
		"title":       siteConfig.Title,
		"feed_url":    h.feedURL(name),
		"use_excerpt": siteConfig.UseExcerpt,
		"max_items":   siteConfig.MaxItems,
		"post_types":  siteConfig.PostTypes,
		"filters":     siteConfig.Filters,
	}

	if siteConfig.HasUpstream() {
		details["upstream"] = map[string]interface{}{
			"url":              siteConfig.Upstream.URL,
			"post_type":        siteConfig.Upstream.PostType,
			"refresh_interval": (time.Duration(siteConfig.Upstream.RefreshInterval) * time.Second).String(),
			"timeout":          (time.Duration(siteConfig.Upstream.Timeout) * time.Second).String(),
			"extract_content":  siteConfig.Upstream.ExtractContent,
		}
	}

	site, err := h.siteRepo.GetSite(name)
	if err != nil {
		slog.Error("Database error", "operation", "get_site", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if site != nil {
		details["database"] = map[string]interface{}{
			"title":           site.Title,
			"home_page_url":   site.HomePageURL,
			"last_fetched_at": site.LastFetchedAt,
			"next_fetch_at":   site.NextFetchAt,
			"created_at":      site.CreatedAt,
			"updated_at":      site.UpdatedAt,
		}
	}

	if postCount, err := h.postRepo.GetPostCount(name); err == nil {
		details["post_count"] = postCount
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APICreatePost(c *gin.Context) {
	name := c.Param("name")

	siteConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid post",
			"details": err.Error(),
		})
		return
	}

	postType := cmp.Or(req.PostType, feed.DefaultPostType)
	if _, ok := siteConfig.PostTypes[postType]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown post type", "post_type": postType})
		return
	}

	if err := h.siteRepo.UpsertSite(name, siteConfig.Upstream.URL); err != nil {
		slog.Error("Database error", "operation", "upsert_site", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.postRepo.UpsertPost(name, req.toPost(postType)); err != nil {
		slog.Error("Database error", "operation", "upsert_post", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Post stored", "site", name, "guid", req.GUID, "type", postType)

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"site":      name,
		"guid":      req.GUID,
		"post_type": postType,
	})
}

func (h *Handler) APIReloadSite(c *gin.Context) {
	name := c.Param("name")

	siteConfig, err := h.configCache.LoadConfig(name)
	if errors.Is(err, feed.ErrSiteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site configuration not found"})
		return
	}
	if err != nil {
		slog.Error("Error reloading configuration", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	if err := h.scheduler.RefreshSite(siteConfig); err != nil {
		slog.Error("Error enqueueing site tasks", "site", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue site tasks",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"site": gin.H{
			"name":     name,
			"title":    siteConfig.Title,
			"upstream": siteConfig.HasUpstream(),
		},
	})
}
