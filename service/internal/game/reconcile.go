// internal/game/reconcile.go
package game

import "github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"

// Outcome is what happened to an offered snapshot.
type Outcome int

const (
	OutcomeApplied   Outcome = iota // applied to the local view
	OutcomeDeferred                 // buffered until the running animation completes
	OutcomeStale                    // version not newer than what was applied or buffered
	OutcomeDesync                   // rejected by the engine; a full resync is needed
	OutcomeDiscarded                // session closed or not accepting snapshots
)

var outcomeNames = [...]string{"applied", "deferred", "stale", "desync", "discarded"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// ApplyFunc applies a snapshot to the local view.
type ApplyFunc func(snap *models.ServerSnapshot) error

// Reconciler gates authoritative snapshots by version and holds at most one
// snapshot back while the local view is animating. A newer deferred snapshot
// replaces the buffered one. It is not safe for concurrent use; the session
// serialises access under its mutex.
type Reconciler struct {
	lastApplied int64
	applied     bool
	pending     *models.ServerSnapshot
	closed      bool
}

// LastApplied returns the highest version applied so far.
func (r *Reconciler) LastApplied() int64 { return r.lastApplied }

// Pending returns the version of the buffered snapshot, if any.
func (r *Reconciler) Pending() (int64, bool) {
	if r.pending == nil {
		return 0, false
	}
	return r.pending.Version, true
}

// Offer routes snap: stale versions are dropped, a busy view buffers it, and
// otherwise it is applied immediately.
func (r *Reconciler) Offer(snap *models.ServerSnapshot, busy bool, apply ApplyFunc) Outcome {
	if r.closed {
		return OutcomeDiscarded
	}
	if r.applied && snap.Version <= r.lastApplied {
		return OutcomeStale
	}
	if r.pending != nil && snap.Version <= r.pending.Version {
		return OutcomeStale
	}
	if busy {
		cp := *snap
		r.pending = &cp
		return OutcomeDeferred
	}
	r.pending = nil
	return r.apply(snap, apply)
}

// Flush applies the buffered snapshot once the view is idle. The boolean is
// false when nothing was applied.
func (r *Reconciler) Flush(busy bool, apply ApplyFunc) (Outcome, bool) {
	if r.closed || r.pending == nil || busy {
		return OutcomeDiscarded, false
	}
	snap := r.pending
	r.pending = nil
	if r.applied && snap.Version <= r.lastApplied {
		return OutcomeStale, false
	}
	return r.apply(snap, apply), true
}

// apply leaves the watermark untouched on failure, so a refetch carrying the
// same version is still accepted.
func (r *Reconciler) apply(snap *models.ServerSnapshot, apply ApplyFunc) Outcome {
	if err := apply(snap); err != nil {
		return OutcomeDesync
	}
	r.lastApplied = snap.Version
	r.applied = true
	return OutcomeApplied
}

// Reset discards the buffered snapshot and refuses later offers.
func (r *Reconciler) Reset() {
	r.pending = nil
	r.closed = true
}
