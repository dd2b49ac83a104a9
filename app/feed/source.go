package feed

import (
	"cmp"
	"iter"

	"github.com/lysyi3m/jsonfeed-comb/app/database"
)

// StoredSource serves a site from its YAML config and the posts kept in the
// database. Values set in the config take precedence over upstream metadata.
type StoredSource struct {
	config  *Config
	site    *database.Site
	posts   []database.Post
	feedURL string
}

func NewStoredSource(config *Config, site *database.Site, posts []database.Post, feedURL string) *StoredSource {
	return &StoredSource{
		config:  config,
		site:    site,
		posts:   posts,
		feedURL: feedURL,
	}
}

func (s *StoredSource) Site() Site {
	var stored database.Site
	if s.site != nil {
		stored = *s.site
	}

	return Site{
		Title:        cmp.Or(s.config.Title, stored.Title),
		Description:  cmp.Or(s.config.Description, stored.Description),
		Comment:      s.config.Comment,
		HomePageURL:  cmp.Or(s.config.HomePageURL, stored.HomePageURL),
		FeedURL:      s.feedURL,
		SmallIconURL: cmp.Or(s.config.Icons.Small, stored.IconURL),
		IconURL:      s.config.Icons.Full,
		Author: SiteAuthor{
			Name:      s.config.Author.Name,
			URL:       s.config.Author.URL,
			AvatarURL: s.config.Author.Avatar,
		},
		UseExcerpt: s.config.UseExcerpt,
	}
}

func (s *StoredSource) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, post := range s.posts {
			rec := Record{
				GUID:         post.GUID,
				Type:         post.PostType,
				Supports:     s.config.Supports(post.PostType),
				Title:        post.Title,
				Permalink:    post.Permalink,
				Excerpt:      post.Excerpt,
				Content:      post.Content,
				ThumbnailURL: post.ThumbnailURL,
				AuthorName:   post.AuthorName,
				AuthorURL:    post.AuthorURL,
				PublishedAt:  post.PublishedAt,
				ModifiedAt:   post.ModifiedAt,
				Tags:         post.Tags,
			}
			if !yield(rec) {
				return
			}
		}
	}
}
