package rating

import "context"

// Rating is an aggregate public rating. Rating and Count are nil when unknown;
// a rating with only a Link is still worth showing.
type Rating struct {
	Rating *float64 `json:"rating"`
	Count  *int     `json:"count"`
	Link   string   `json:"link,omitempty"`
}

// Provider never fails: any upstream problem yields a reduced rating or nil.
type Provider interface {
	Fetch(ctx context.Context) *Rating
}

// Static always returns the same value.
type Static struct {
	Value *Rating
}

func (s Static) Fetch(context.Context) *Rating { return s.Value }
