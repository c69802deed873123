package reviews

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"reviewhub/internal/models"
)

// List is the client-side collection of review entries for one product page.
// Entries live only as long as the page/session; nothing is persisted.
// Newest entries come first, matching the page layout.
type List struct {
	mu      sync.Mutex
	entries []*models.ReviewEntry
}

func NewList() *List {
	return &List{}
}

// AddText records a text-only review. There is no asset to moderate, so it is
// approved immediately.
func (l *List) AddText(text string) models.ReviewEntry {
	entry := &models.ReviewEntry{
		ID:     uuid.NewString(),
		Text:   text,
		Date:   time.Now(),
		Status: models.ReviewApproved,
	}
	l.prepend(entry)
	return *entry
}

// AddVideo records a video review for a freshly uploaded asset. It starts in
// processing and resolves as the poller observes the pipeline's verdict.
func (l *List) AddVideo(assetID, publicID, text string) models.ReviewEntry {
	entry := &models.ReviewEntry{
		ID:       assetID,
		Text:     text,
		PublicID: publicID,
		Date:     time.Now(),
		Status:   models.ReviewProcessing,
	}
	l.prepend(entry)
	return *entry
}

func (l *List) prepend(entry *models.ReviewEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]*models.ReviewEntry{entry}, l.entries...)
}

// MarkApproved resolves the entry for id to approved, recording which of the
// optional sub-pipelines completed. Unknown ids are a no-op: the entry may
// have been torn down before its poll resolved.
func (l *List) MarkApproved(id string, report models.StatusReport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.ID == id {
			e.Status = models.ReviewApproved
			e.RejectionReason = ""
			e.AutoChaptering = report.AutoChaptering
			e.AutoTranscription = report.AutoTranscription
			e.EagerTransformationComplete = report.EagerTransformationComplete
			return
		}
	}
}

// MarkRejected resolves the entry for id to rejected with the given reason.
func (l *List) MarkRejected(id, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.ID == id {
			e.Status = models.ReviewRejected
			e.RejectionReason = reason
			return
		}
	}
}

// Get returns a copy of the entry for id.
func (l *List) Get(id string) (models.ReviewEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.ID == id {
			return *e, true
		}
	}
	return models.ReviewEntry{}, false
}

// Entries returns a snapshot of all entries, newest first.
func (l *List) Entries() []models.ReviewEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.ReviewEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	return out
}
