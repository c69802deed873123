package store

import (
	"hash/fnv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"reviewhub/internal/models"
)

// AssetStore is an in-memory, sharded implementation of AssetRecordStore.
// Each shard owns a slice of the keyspace behind its own mutex, so two
// webhooks for different assets never serialize on each other while two
// events for the same asset always do.
//
// Records that go EntryTTL without an update are evicted by a background
// janitor; an abandoned upload therefore costs memory only for a bounded
// window.
type AssetStore struct {
	shards []*assetShard
	ttl    time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

type assetShard struct {
	mu      sync.Mutex
	records map[string]*models.AssetProcessingRecord
}

var _ AssetRecordStore = (*AssetStore)(nil)

// NewAssetStore creates the store and starts the eviction janitor. Pass a
// non-positive sweepInterval to disable the janitor (tests drive eviction
// through EvictExpired directly).
func NewAssetStore(shardCount int, ttl, sweepInterval time.Duration) *AssetStore {
	if shardCount <= 0 {
		shardCount = 1
	}
	s := &AssetStore{
		shards: make([]*assetShard, shardCount),
		ttl:    ttl,
		stop:   make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &assetShard{records: make(map[string]*models.AssetProcessingRecord)}
	}
	if sweepInterval > 0 {
		go s.janitor(sweepInterval)
	}
	return s
}

func (s *AssetStore) shardFor(assetID string) *assetShard {
	h := fnv.New32a()
	h.Write([]byte(assetID))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

func (s *AssetStore) Update(assetID string, fn func(*models.AssetProcessingRecord) bool) {
	sh := s.shardFor(assetID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[assetID]
	if !ok {
		rec = models.NewAssetProcessingRecord()
		sh.records[assetID] = rec
	}
	rec.UpdatedAt = time.Now()
	if fn(rec) {
		delete(sh.records, assetID)
	}
}

func (s *AssetStore) Get(assetID string) (models.AssetProcessingRecord, bool) {
	sh := s.shardFor(assetID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[assetID]
	if !ok {
		return models.AssetProcessingRecord{}, false
	}
	return *rec, true
}

func (s *AssetStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.records)
		sh.mu.Unlock()
	}
	return n
}

// EvictExpired removes every record whose last update is older than the TTL
// relative to now and returns how many were dropped.
func (s *AssetStore) EvictExpired(now time.Time) int {
	evicted := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, rec := range sh.records {
			if now.Sub(rec.UpdatedAt) > s.ttl {
				delete(sh.records, id)
				evicted++
			}
		}
		sh.mu.Unlock()
	}
	return evicted
}

func (s *AssetStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.EvictExpired(time.Now()); n > 0 {
				log.WithField("evicted", n).Debug("asset store janitor swept stale records")
			}
		case <-s.stop:
			return
		}
	}
}

// Close stops the janitor. Safe to call more than once.
func (s *AssetStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}
