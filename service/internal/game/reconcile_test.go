package game

import (
	"errors"
	"testing"

	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
	"github.com/stretchr/testify/assert"
)

type applyLog struct {
	versions []int64
	fail     map[int64]bool
}

func (l *applyLog) apply(snap *models.ServerSnapshot) error {
	if l.fail[snap.Version] {
		return errors.New("rejected")
	}
	l.versions = append(l.versions, snap.Version)
	return nil
}

func TestReconcilerOrdering(t *testing.T) {
	var r Reconciler
	log := &applyLog{}

	assert.Equal(t, OutcomeApplied, r.Offer(&models.ServerSnapshot{Version: 0}, false, log.apply), "version zero is accepted first")
	assert.Equal(t, OutcomeApplied, r.Offer(&models.ServerSnapshot{Version: 4}, false, log.apply))
	assert.Equal(t, OutcomeStale, r.Offer(&models.ServerSnapshot{Version: 4}, false, log.apply))
	assert.Equal(t, OutcomeStale, r.Offer(&models.ServerSnapshot{Version: 2}, false, log.apply))
	assert.Equal(t, OutcomeApplied, r.Offer(&models.ServerSnapshot{Version: 7}, false, log.apply), "gaps are fine")

	assert.Equal(t, []int64{0, 4, 7}, log.versions)
	assert.EqualValues(t, 7, r.LastApplied())
}

func TestReconcilerDefersWhileBusy(t *testing.T) {
	var r Reconciler
	log := &applyLog{}

	assert.Equal(t, OutcomeDeferred, r.Offer(&models.ServerSnapshot{Version: 1}, true, log.apply))
	assert.Equal(t, OutcomeDeferred, r.Offer(&models.ServerSnapshot{Version: 3}, true, log.apply))
	assert.Equal(t, OutcomeStale, r.Offer(&models.ServerSnapshot{Version: 2}, true, log.apply))
	v, ok := r.Pending()
	assert.True(t, ok)
	assert.EqualValues(t, 3, v)
	assert.Empty(t, log.versions)

	_, ok = r.Flush(true, log.apply)
	assert.False(t, ok, "still busy")

	out, ok := r.Flush(false, log.apply)
	assert.True(t, ok)
	assert.Equal(t, OutcomeApplied, out)
	assert.Equal(t, []int64{3}, log.versions)
	_, ok = r.Pending()
	assert.False(t, ok)

	_, ok = r.Flush(false, log.apply)
	assert.False(t, ok, "nothing buffered")
}

func TestReconcilerIdleOfferSupersedesBuffer(t *testing.T) {
	var r Reconciler
	log := &applyLog{}
	r.Offer(&models.ServerSnapshot{Version: 1}, true, log.apply)
	assert.Equal(t, OutcomeApplied, r.Offer(&models.ServerSnapshot{Version: 2}, false, log.apply))
	_, ok := r.Pending()
	assert.False(t, ok)
	assert.Equal(t, []int64{2}, log.versions)
}

func TestReconcilerBufferCopiesSnapshot(t *testing.T) {
	var r Reconciler
	log := &applyLog{}
	snap := &models.ServerSnapshot{Version: 5, Phase: "playing"}
	r.Offer(snap, true, log.apply)
	snap.Version = 1
	v, _ := r.Pending()
	assert.EqualValues(t, 5, v)
}

func TestReconcilerFailureKeepsWatermark(t *testing.T) {
	var r Reconciler
	log := &applyLog{fail: map[int64]bool{3: true}}
	r.Offer(&models.ServerSnapshot{Version: 2}, false, log.apply)

	assert.Equal(t, OutcomeDesync, r.Offer(&models.ServerSnapshot{Version: 3}, false, log.apply))
	assert.EqualValues(t, 2, r.LastApplied())

	log.fail = nil
	assert.Equal(t, OutcomeApplied, r.Offer(&models.ServerSnapshot{Version: 3}, false, log.apply), "refetch of the same version")
}

func TestReconcilerReset(t *testing.T) {
	var r Reconciler
	log := &applyLog{}
	r.Offer(&models.ServerSnapshot{Version: 1}, true, log.apply)
	r.Reset()

	_, ok := r.Pending()
	assert.False(t, ok)
	_, ok = r.Flush(false, log.apply)
	assert.False(t, ok)
	assert.Equal(t, OutcomeDiscarded, r.Offer(&models.ServerSnapshot{Version: 2}, false, log.apply))
	assert.Empty(t, log.versions)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "deferred", OutcomeDeferred.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
