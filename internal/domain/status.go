package domain

// Status represents lifecycle states for press entities
type Status string

const (
	// StatusDraft indicates a post still under preparation
	StatusDraft Status = "draft"
	// StatusPublished identifies a post available to readers
	StatusPublished Status = "published"
	// StatusArchived marks a post retained for history but no longer listed
	StatusArchived Status = "archived"
)

// StatusForRelease maps the front-matter release flag onto a Status.
func StatusForRelease(release bool) Status {
	if release {
		return StatusPublished
	}
	return StatusDraft
}

// IsValid reports whether the status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}
