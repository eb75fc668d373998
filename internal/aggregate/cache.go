package aggregate

import (
	"sync"
	"time"

	"github.com/A11myt/obsidian-task-heatmap/internal/models"
)

// DefaultCacheTTL is how long a scan result may be reused before a
// full rescan is required. Staleness beyond this window is never
// guaranteed-correct.
const DefaultCacheTTL = 1500 * time.Millisecond

// Cache holds the result of the most recent scan for a short window.
// A forced refresh always bypasses it. The cache owns its own notion of
// time: entries are stamped when Set is called, so freshness never
// depends on a clock the caller carries.
type Cache interface {
	Get() (map[string]*models.DayRecord, bool)
	Set(days map[string]*models.DayRecord)
	Invalidate()
}

// TimedCache is a Cache with time-based expiry.
type TimedCache struct {
	mu   sync.Mutex
	days map[string]*models.DayRecord
	at   time.Time
	ttl  time.Duration

	now func() time.Time // overridable in tests
}

// NewTimedCache creates a TimedCache with the given TTL.
func NewTimedCache(ttl time.Duration) *TimedCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &TimedCache{ttl: ttl, now: time.Now}
}

func (c *TimedCache) Get() (map[string]*models.DayRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.days == nil || c.now().Sub(c.at) > c.ttl {
		return nil, false
	}
	return c.days, true
}

func (c *TimedCache) Set(days map[string]*models.DayRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days = days
	c.at = c.now()
}

func (c *TimedCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days = nil
}

// NopCache never retains anything; useful in tests and one-shot scans.
type NopCache struct{}

func (NopCache) Get() (map[string]*models.DayRecord, bool) { return nil, false }
func (NopCache) Set(map[string]*models.DayRecord)          {}
func (NopCache) Invalidate()                               {}
