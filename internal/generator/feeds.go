package generator

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-press/post"
)

const maxFeedItems = 100

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	PublishedAt time.Time
}

func (s *service) buildFeedItems(records []*post.Post) []feedItem {
	var items []feedItem
	for _, record := range records {
		if !record.IsVisible() {
			continue
		}
		item := feedItem{
			Title: strings.TrimSpace(record.Title),
			Link:  absoluteURL(s.cfg.BaseURL, "/"+record.Slug+"/"),
			GUID:  record.ID.String(),
		}
		if item.Title == "" {
			item.Title = record.Slug
		}
		if record.Summary != nil {
			item.Summary = normalizeWhitespace(*record.Summary)
		}
		if record.PublishedAt != nil {
			item.PublishedAt = record.PublishedAt.UTC()
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		left, right := items[i].PublishedAt, items[j].PublishedAt
		if left.Equal(right) {
			return items[i].GUID < items[j].GUID
		}
		return left.After(right)
	})
	if len(items) > maxFeedItems {
		items = append([]feedItem(nil), items[:maxFeedItems]...)
	}
	return items
}

func (s *service) writeFeed(ctx context.Context, writer ArtifactWriter, records []*post.Post, generatedAt time.Time) (string, error) {
	content := s.buildRSSFeed(s.buildFeedItems(records), generatedAt)
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        "feed.xml",
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryFeed,
		ContentType: "application/rss+xml",
	}); err != nil {
		return "", err
	}
	return "feed.xml", nil
}

func (s *service) buildRSSFeed(items []feedItem, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(s.cfg.BaseURL)
	site := s.siteModel(generatedAt)
	description := site.Description
	if description == "" {
		description = "Latest posts"
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(site.Title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(description)))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, item := range items {
		pub := item.PublishedAt
		if pub.IsZero() {
			pub = generatedAt
		}
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("      <guid isPermaLink=\"false\">%s</guid>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

func baseURLWithFallback(base string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(base), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func absoluteURL(base, route string) string {
	targetBase := baseURLWithFallback(base)
	normalized := strings.TrimSpace(route)
	if normalized == "" {
		return targetBase
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	return targetBase + normalized
}

func normalizeWhitespace(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	return strings.Join(strings.Fields(input), " ")
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
