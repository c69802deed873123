package poller

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"reviewhub/internal/models"
)

// StatusChecker issues one status query against the aggregation endpoint.
type StatusChecker interface {
	CheckStatus(ctx context.Context, assetID, publicID string) (models.StatusReport, error)
}

// EntryResolver applies a terminal verdict to the review entry that owns the
// asset. reviews.List satisfies this.
type EntryResolver interface {
	MarkApproved(id string, report models.StatusReport)
	MarkRejected(id, reason string)
}

// StatusPoller drives one asset from processing to a terminal state. Each
// poll either resolves the entry or schedules exactly one successor poll
// after Interval; the chain stops at the first terminal report, when the
// wall-clock ceiling (measured from the first poll, never reset) elapses, or
// when the owning context is cancelled.
type StatusPoller struct {
	checker  StatusChecker
	resolver EntryResolver
	interval time.Duration
	timeout  time.Duration
}

func New(checker StatusChecker, resolver EntryResolver, interval, timeout time.Duration) *StatusPoller {
	return &StatusPoller{
		checker:  checker,
		resolver: resolver,
		interval: interval,
		timeout:  timeout,
	}
}

// Track starts polling for assetID and returns a channel that is closed when
// polling stops, whatever the outcome. Cancelling ctx stops the chain without
// touching the entry: the component that owned it is gone.
func (p *StatusPoller) Track(ctx context.Context, assetID, publicID string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.poll(ctx, assetID, publicID, time.Now())
	}()
	return done
}

func (p *StatusPoller) poll(ctx context.Context, assetID, publicID string, start time.Time) {
	for {
		if ctx.Err() != nil {
			return
		}

		report, err := p.checker.CheckStatus(ctx, assetID, publicID)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			// Transient failure: keep the cadence, the ceiling still applies.
			log.WithError(err).WithField("asset_id", assetID).Warn("status poll failed")
		case report.Status == models.StatusApproved:
			p.resolver.MarkApproved(assetID, report)
			return
		case report.Status == models.StatusRejected:
			p.resolver.MarkRejected(assetID, report.Message)
			return
		}

		if time.Since(start) >= p.timeout {
			// Nothing failed upstream; the client just gives up waiting.
			log.WithField("asset_id", assetID).Warn("status polling reached its ceiling")
			p.resolver.MarkRejected(assetID, models.MsgProcessingTimeout)
			return
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
