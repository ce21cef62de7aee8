package feedback

import (
	"slices"
	"strings"
)

// VisibleTestimonials returns the records that are both approved and
// publishable, newest first. Records with equal timestamps keep store order.
func VisibleTestimonials(records []Record) []Testimonial {
	visible := make([]Record, 0, len(records))
	for _, r := range records {
		if r.IsPublic() {
			visible = append(visible, r)
		}
	}

	slices.SortStableFunc(visible, func(a, b Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	out := make([]Testimonial, 0, len(visible))
	for _, r := range visible {
		out = append(out, toTestimonial(r))
	}
	return out
}

func toTestimonial(r Record) Testimonial {
	name := r.Name
	if strings.TrimSpace(name) == "" {
		name = AnonymousName
	}
	return Testimonial{
		ID:           r.ID,
		Name:         name,
		Relationship: r.Relationship,
		Rating:       r.Rating,
		Stars:        Stars(r.Rating),
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

// Stars renders rating as five glyphs, filled first. Out-of-range ratings are
// clamped to [0, 5].
func Stars(rating int) string {
	n := max(0, min(MaxRating, rating))
	return strings.Repeat("★", n) + strings.Repeat("☆", MaxRating-n)
}
