// Package markdown provides the concrete implementation of the content-file
// workflows: front-matter extraction, filesystem discovery, and rendering of
// Markdown bodies into HTML with the goldmark engine.
package markdown
