package operator

// SelectLeastLoaded returns the available operator with the fewest active
// conversations among those matching tags and not excluded. Ties go to the
// smallest operator id. It makes a single pass over operators and returns nil
// when nobody qualifies.
func SelectLeastLoaded(operators []*Availability, tags, exclude []string) *Availability {
	var skip map[string]struct{}
	if len(exclude) > 0 {
		skip = make(map[string]struct{}, len(exclude))
		for _, id := range exclude {
			skip[id] = struct{}{}
		}
	}

	var best *Availability
	for _, op := range operators {
		if op == nil || !op.IsAvailable() || !op.HasAnyTag(tags) {
			continue
		}
		if _, excluded := skip[op.ID]; excluded {
			continue
		}
		if best == nil ||
			op.ActiveConversations < best.ActiveConversations ||
			(op.ActiveConversations == best.ActiveConversations && op.ID < best.ID) {
			best = op
		}
	}
	return best
}
