package domain

import internaldomain "github.com/goliatone/go-press/internal/domain"

// Status represents lifecycle states for press entities.
type Status = internaldomain.Status

const (
	// StatusDraft indicates a post still under preparation.
	StatusDraft = internaldomain.StatusDraft
	// StatusPublished identifies a post available to readers.
	StatusPublished = internaldomain.StatusPublished
	// StatusArchived marks a post that is retained for history but no longer listed.
	StatusArchived = internaldomain.StatusArchived
)

// StatusForRelease maps the front-matter release flag onto a Status.
func StatusForRelease(release bool) Status {
	return internaldomain.StatusForRelease(release)
}
