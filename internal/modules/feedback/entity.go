package feedback

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	MinRating           = 1
	MaxRating           = 5
	DefaultRating       = 5
	DefaultRelationship = "Parent/Guardian"
	AnonymousName       = "Anonymous"

	maxNameLen         = 120
	maxRelationshipLen = 120
	maxCommentLen      = 800
)

// Record is one submitted review as kept in the store.
type Record struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CanPublish   bool      `json:"can_publish"`
	Approved     bool      `json:"approved"`

	// cells read from the file that do not map onto the typed fields; they are
	// written back unchanged
	rawRating    string
	rawTimestamp string
	extra        []cell
}

type cell struct {
	column string
	value  string
}

// IsPublic reports whether the record may appear in the public testimonials.
// Consent and approval are both required.
func (r Record) IsPublic() bool {
	return r.Approved && r.CanPublish
}

// Testimonial is the public display form of an approved, publishable record.
type Testimonial struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Rating       int       `json:"rating"`
	Stars        string    `json:"stars"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type Action string

const (
	ActionApprove   Action = "approve"
	ActionUnapprove Action = "unapprove"
	ActionDelete    Action = "delete"
)

func (a Action) Valid() bool {
	switch a {
	case ActionApprove, ActionUnapprove, ActionDelete:
		return true
	}
	return false
}

// Moderator is the capability required to moderate feedback. Only the admin
// session layer creates one, after verifying the session token.
type Moderator struct {
	subject string
}

const moderatorKey = "feedback.moderator"

func NewModerator(subject string) Moderator {
	if subject == "" {
		subject = "admin"
	}
	return Moderator{subject: subject}
}

func (m Moderator) Subject() string { return m.subject }

func (m Moderator) valid() bool { return m.subject != "" }

// WithModerator stores m on the request context.
func WithModerator(c *gin.Context, m Moderator) {
	c.Set(moderatorKey, m)
}

// ModeratorFrom returns the moderator attached to the request, if any.
func ModeratorFrom(c *gin.Context) (Moderator, bool) {
	v, ok := c.Get(moderatorKey)
	if !ok {
		return Moderator{}, false
	}
	m, ok := v.(Moderator)
	if !ok || !m.valid() {
		return Moderator{}, false
	}
	return m, true
}
