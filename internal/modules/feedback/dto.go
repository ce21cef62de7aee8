package feedback

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SubmitFeedbackRequest keeps every field raw so that loosely typed clients
// (numbers for names, "on" for consent) degrade to defaults instead of a 400.
type SubmitFeedbackRequest struct {
	Name         json.RawMessage `json:"name"`
	Relationship json.RawMessage `json:"relationship,omitempty"`
	Rating       json.RawMessage `json:"rating,omitempty"`
	Comment      json.RawMessage `json:"comment"`
	CanPublish   json.RawMessage `json:"can_publish"`
}

// rawText returns a JSON string unquoted and any other scalar as its literal
// text. Absent and null values are empty.
func rawText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

// truthy treats false, null, 0 and the empty string as unset.
func truthy(raw json.RawMessage) bool {
	v, ok := rawText(raw)
	if !ok {
		return false
	}
	switch strings.TrimSpace(v) {
	case "", "false", "0":
		return false
	}
	return true
}

func (r SubmitFeedbackRequest) toInput() SubmitInput {
	name, _ := rawText(r.Name)
	rating, _ := rawText(r.Rating)
	comment, _ := rawText(r.Comment)

	in := SubmitInput{
		Name:      name,
		RatingRaw: rating,
		Comment:   comment,
	}
	if rel, ok := rawText(r.Relationship); ok {
		in.Relationship = &rel
	}
	if truthy(r.CanPublish) {
		in.CanPublishRaw = "on"
	}
	return in
}

type ModerationRequest struct {
	ID     string `json:"id" form:"id"`
	Action string `json:"action" form:"action"`
}

type ModerationResponse struct {
	Changed      bool          `json:"changed"`
	Testimonials []Testimonial `json:"testimonials"`
}

type adminRow struct {
	Record
	Stars string
}

type actionButton struct {
	Value Action
	Label string
}

var actionButtons = []actionButton{
	{Value: ActionApprove, Label: "Approve"},
	{Value: ActionUnapprove, Label: "Unapprove"},
	{Value: ActionDelete, Label: "Delete"},
}
