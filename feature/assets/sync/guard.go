package sync

import "context"

// guard enforces the two uniqueness constraints for the duration of one batch:
// internal id and external tag must each be unique across the store and the
// rest of the batch.
//
// Within-batch state matters for two cases. A key this batch created must
// reject later occurrences as duplicate_key (batch order is caller-supplied
// and stable, so "first wins" is deterministic). A tag claimed earlier in the
// batch must reject later records claiming it for a different key. Keys that
// already existed in the store are not tracked here: repeated updates to the
// same existing key re-read store state and fall through to version
// comparison instead.
type guard struct {
	createdKeys map[string]struct{}
	claimedTags map[string]string
}

func newGuard() *guard {
	return &guard{
		createdKeys: make(map[string]struct{}),
		claimedTags: make(map[string]string),
	}
}

// violates reports whether rec collides on internal id or external tag.
// The store lookup is a point-in-time snapshot per record; no locking is
// needed because the eventual mutation is itself conditional.
func (g *guard) violates(ctx context.Context, store Store, rec Record) (bool, error) {
	if _, ok := g.createdKeys[rec.InternalID]; ok {
		return true, nil
	}

	if rec.ExternalTag == nil {
		return false, nil
	}
	tag := *rec.ExternalTag

	if owner, ok := g.claimedTags[tag]; ok && owner != rec.InternalID {
		return true, nil
	}

	owner, err := store.OwnerOfTag(ctx, tag)
	if err != nil {
		return false, err
	}
	if owner != "" && owner != rec.InternalID {
		return true, nil
	}

	return false, nil
}

// admit records the claims of an accepted record.
func (g *guard) admit(rec Record, created bool) {
	if created {
		g.createdKeys[rec.InternalID] = struct{}{}
	}
	if rec.ExternalTag != nil {
		g.claimedTags[*rec.ExternalTag] = rec.InternalID
	}
}
