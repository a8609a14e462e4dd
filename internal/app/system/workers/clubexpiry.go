// internal/app/system/workers/clubexpiry.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	clubstore "github.com/studybuddyhq/studybuddy/internal/app/store/studyclubs"
	userstore "github.com/studybuddyhq/studybuddy/internal/app/store/users"
	"github.com/studybuddyhq/studybuddy/internal/app/system/activity"
	"github.com/studybuddyhq/studybuddy/internal/app/system/notify"
)

// ClubExpiry is a background worker that reaps clubs past their
// lifetime. The TTL index deletes the documents eventually anyway;
// this worker exists so members hear a club-dismissed event and get
// their party_code cleared promptly instead of finding a dead club.
type ClubExpiry struct {
	clubs    *clubstore.Store
	users    *userstore.Store
	broker   notify.Broker
	tracker  activity.Tracker
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewClubExpiry creates a new club expiry worker.
func NewClubExpiry(clubs *clubstore.Store, users *userstore.Store, broker notify.Broker, tracker activity.Tracker, logger *zap.Logger, interval time.Duration) *ClubExpiry {
	return &ClubExpiry{
		clubs:    clubs,
		users:    users,
		broker:   broker,
		tracker:  tracker,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background reap loop.
func (w *ClubExpiry) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("club expiry worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *ClubExpiry) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("club expiry worker stopped")
}

func (w *ClubExpiry) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.reap()
		}
	}
}

func (w *ClubExpiry) reap() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := w.clubs.ListExpired(ctx, time.Now().UTC())
	if err != nil {
		w.log.Error("list expired clubs failed", zap.Error(err))
		return
	}

	for _, club := range expired {
		w.reapOne(ctx, club.PartyCode)
	}
}

// ReapNow runs one reap pass immediately. Exposed for tests and for
// callers that do not want to wait for the next tick.
func (w *ClubExpiry) ReapNow(ctx context.Context) {
	expired, err := w.clubs.ListExpired(ctx, time.Now().UTC())
	if err != nil {
		w.log.Error("list expired clubs failed", zap.Error(err))
		return
	}
	for _, club := range expired {
		w.reapOne(ctx, club.PartyCode)
	}
}

func (w *ClubExpiry) reapOne(ctx context.Context, partyCode string) {
	if _, err := w.clubs.DeleteByCode(ctx, partyCode); err != nil {
		// Already gone, likely the TTL monitor or a concurrent reap.
		w.log.Debug("expired club already deleted",
			zap.String("party_code", partyCode),
			zap.Error(err))
		return
	}

	if err := w.broker.Publish(ctx, partyCode, notify.NewEvent(notify.TypeClubDismissed, map[string]string{
		"party_code": partyCode,
		"reason":     "expired",
	})); err != nil {
		w.log.Warn("publish club-dismissed failed",
			zap.String("party_code", partyCode),
			zap.Error(err))
	}

	if n, err := w.users.ClearPartyCodeForAll(ctx, partyCode); err != nil {
		w.log.Warn("clear party codes failed",
			zap.String("party_code", partyCode),
			zap.Error(err))
	} else {
		w.log.Info("study club expired",
			zap.String("party_code", partyCode),
			zap.Int64("members_detached", n))
	}

	if err := w.tracker.Forget(ctx, partyCode); err != nil {
		w.log.Warn("forget activity record failed",
			zap.String("party_code", partyCode),
			zap.Error(err))
	}
}
