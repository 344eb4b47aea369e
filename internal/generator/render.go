package generator

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-press/post"
)

// siteModel is the template context shared by every rendered page.
type siteModel struct {
	Title       string
	Description string
	BaseURL     string
	GeneratedAt time.Time
}

// pageModel is the template context for a single post page.
type pageModel struct {
	Site        siteModel
	Title       string
	Author      string
	Slug        string
	Layout      string
	Summary     string
	Tags        []string
	PublishedAt *time.Time
	Permalink   string
	Content     template.HTML
}

// indexModel is the template context for the listing page.
type indexModel struct {
	Site  siteModel
	Posts []pageModel
}

var builtinPostLayout = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}} - {{.Site.Title}}</title></head>
<body>
<article>
<h1>{{.Title}}</h1>
<p class="byline">{{.Author}}{{if .PublishedAt}} &middot; {{.PublishedAt.Format "2006-01-02"}}{{end}}</p>
{{.Content}}
</article>
</body>
</html>
`))

var builtinIndexLayout = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Site.Title}}</title></head>
<body>
<h1>{{.Site.Title}}</h1>
<ul>
{{range .Posts}}<li><a href="{{.Permalink}}">{{.Title}}</a></li>
{{end}}</ul>
</body>
</html>
`))

// layoutSet resolves layout names declared in front matter to parsed
// templates.
type layoutSet struct {
	templates map[string]*template.Template
}

// loadLayouts parses every *.html file in dir as a named layout. A missing
// or empty dir is fine; the built-in layouts cover the gap.
func loadLayouts(dir string) (*layoutSet, error) {
	set := &layoutSet{templates: map[string]*template.Template{}}
	if strings.TrimSpace(dir) == "" {
		return set, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("generator: scan layouts %s: %w", dir, err)
	}
	for _, match := range matches {
		name := strings.TrimSuffix(filepath.Base(match), filepath.Ext(match))
		raw, err := os.ReadFile(match)
		if err != nil {
			return nil, fmt.Errorf("generator: read layout %s: %w", match, err)
		}
		tmpl, err := template.New(name).Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("generator: parse layout %s: %w", name, err)
		}
		set.templates[name] = tmpl
	}
	return set, nil
}

// lookup tries the given layout names in order before falling back to the
// built-in template.
func (s *layoutSet) lookup(builtin *template.Template, names ...string) *template.Template {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if tmpl, ok := s.templates[name]; ok {
			return tmpl
		}
	}
	return builtin
}

func (s *service) siteModel(generatedAt time.Time) siteModel {
	title := strings.TrimSpace(s.cfg.SiteTitle)
	if title == "" {
		title = baseURLWithFallback(s.cfg.BaseURL)
	}
	return siteModel{
		Title:       title,
		Description: strings.TrimSpace(s.cfg.SiteDescription),
		BaseURL:     baseURLWithFallback(s.cfg.BaseURL),
		GeneratedAt: generatedAt,
	}
}

func (s *service) pageModel(record *post.Post, generatedAt time.Time) pageModel {
	model := pageModel{
		Site:        s.siteModel(generatedAt),
		Title:       record.Title,
		Author:      record.Author,
		Slug:        record.Slug,
		Layout:      record.Layout,
		Tags:        record.Tags,
		PublishedAt: record.PublishedAt,
		Permalink:   absoluteURL(s.cfg.BaseURL, "/"+record.Slug+"/"),
		Content:     template.HTML(record.BodyHTML),
	}
	if record.Summary != nil {
		model.Summary = strings.TrimSpace(*record.Summary)
	}
	return model
}

func (s *service) renderPost(ctx context.Context, writer ArtifactWriter, layouts *layoutSet, record *post.Post, generatedAt time.Time) (string, error) {
	tmpl := layouts.lookup(builtinPostLayout, record.Layout, s.cfg.DefaultLayout)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, s.pageModel(record, generatedAt)); err != nil {
		return "", err
	}

	target := pagePath(record.Slug)
	if err := writer.EnsureDir(ctx, record.Slug); err != nil {
		return "", err
	}
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
		Category:    categoryPage,
		ContentType: "text/html; charset=utf-8",
	}); err != nil {
		return "", err
	}
	return target, nil
}

func (s *service) renderIndex(ctx context.Context, writer ArtifactWriter, layouts *layoutSet, records []*post.Post, generatedAt time.Time) (string, error) {
	model := indexModel{Site: s.siteModel(generatedAt)}
	for _, record := range records {
		if !record.IsVisible() {
			continue
		}
		model.Posts = append(model.Posts, s.pageModel(record, generatedAt))
	}

	tmpl := layouts.lookup(builtinIndexLayout, "index")

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, model); err != nil {
		return "", err
	}
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        "index.html",
		Content:     bytes.NewReader(buf.Bytes()),
		Size:        int64(buf.Len()),
		Category:    categoryIndex,
		ContentType: "text/html; charset=utf-8",
	}); err != nil {
		return "", err
	}
	return "index.html", nil
}
