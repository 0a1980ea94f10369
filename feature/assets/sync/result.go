package sync

// aggregator collects per-record dispositions into a BatchResult.
// Every record handed to the pipeline lands in exactly one bucket, so the
// caller can reconcile the fate of each submission without a follow-up query.
type aggregator struct {
	created    []string
	updated    []string
	conflicted []Conflict
}

func newAggregator(size int) *aggregator {
	return &aggregator{
		created:    make([]string, 0, size),
		updated:    make([]string, 0, size),
		conflicted: make([]Conflict, 0),
	}
}

func (a *aggregator) addCreated(internalID string) {
	a.created = append(a.created, internalID)
}

func (a *aggregator) addUpdated(internalID string) {
	a.updated = append(a.updated, internalID)
}

func (a *aggregator) addConflicted(internalID string, reason Reason) {
	a.conflicted = append(a.conflicted, Conflict{InternalID: internalID, Reason: reason})
}

func (a *aggregator) result() *BatchResult {
	return &BatchResult{
		Created:    a.created,
		Updated:    a.updated,
		Conflicted: a.conflicted,
		Counts: Counts{
			Created:    len(a.created),
			Updated:    len(a.updated),
			Conflicted: len(a.conflicted),
		},
	}
}
