package feedback

import "slices"

// ApplyAction applies one moderation action to the first record with the given
// id and returns the resulting set. records is never modified. changed is false
// when the id is unknown, the action is unknown, or the flag already had the
// requested value.
func ApplyAction(records []Record, id string, action Action) (updated []Record, changed bool) {
	idx := slices.IndexFunc(records, func(r Record) bool { return r.ID == id })
	if idx < 0 {
		return records, false
	}

	switch action {
	case ActionApprove, ActionUnapprove:
		want := action == ActionApprove
		if records[idx].Approved == want {
			return records, false
		}
		out := slices.Clone(records)
		out[idx].Approved = want
		return out, true
	case ActionDelete:
		out := make([]Record, 0, len(records)-1)
		out = append(out, records[:idx]...)
		out = append(out, records[idx+1:]...)
		return out, true
	default:
		return records, false
	}
}
