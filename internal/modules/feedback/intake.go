package feedback

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"playhouse/internal/pkg/utils"
)

// SubmitInput is the raw public form input. Relationship is nil when the
// field was not sent at all.
type SubmitInput struct {
	Name          string
	Relationship  *string
	RatingRaw     string
	Comment       string
	CanPublishRaw string
}

// ParseRating never rejects: unparseable input becomes DefaultRating and any
// integer, however large, is clamped into [MinRating, MaxRating].
func ParseRating(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		// on overflow Atoi still returns the saturated value, which clamps correctly
		if !errors.Is(err, strconv.ErrRange) {
			return DefaultRating
		}
	}
	return ClampRating(n)
}

func ClampRating(n int) int {
	return max(MinRating, min(MaxRating, n))
}

// newRecord builds a pending record from public input.
func newRecord(id string, now time.Time, in SubmitInput) Record {
	// the default applies only when the field is absent; a blank answer stays blank
	relationship := DefaultRelationship
	if in.Relationship != nil {
		relationship = utils.Clean(*in.Relationship, maxRelationshipLen)
	}

	return Record{
		ID:           id,
		CreatedAt:    now.Truncate(time.Second),
		Name:         utils.Clean(in.Name, maxNameLen),
		Relationship: relationship,
		Rating:       ParseRating(in.RatingRaw),
		Comment:      utils.Clean(in.Comment, maxCommentLen),
		CanPublish:   in.CanPublishRaw != "",
		Approved:     false,
	}
}
