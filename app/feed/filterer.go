package feed

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lysyi3m/jsonfeed-comb/app/jsonfeed"
)

var validFilterFields = map[string]bool{
	"title":   true,
	"summary": true,
	"content": true,
	"author":  true,
	"url":     true,
	"tags":    true,
}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Hook returns an ItemHook that drops items rejected by filters.
func (f *Filterer) Hook(filters []ConfigFilter) ItemHook {
	return func(item *jsonfeed.Item, rec Record) *jsonfeed.Item {
		if isFiltered, reason := f.Run(item, filters); isFiltered {
			slog.Debug("Item filtered", "id", item.ID(), "reason", reason)
			return nil
		}
		return item
	}
}

// Run reports whether item is rejected by filters and why.
func (f *Filterer) Run(item *jsonfeed.Item, filters []ConfigFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(item, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(item *jsonfeed.Item, field string) string {
	switch field {
	case "title":
		return item.Title()
	case "summary":
		return item.Summary()
	case "content":
		return item.ContentHTML()
	case "author":
		if author := item.Author(); author != nil {
			return author.Name()
		}
		return ""
	case "url":
		return item.URL()
	case "tags":
		return strings.Join(item.Tags(), " ")
	default:
		return ""
	}
}
