package manifest

import (
	"context"
	"github.com/Masterminds/semver/v3"
	"github.com/MrMelon54/rescheduler"
	"github.com/mrmelon54/mc-launcher-core/acqerr"
	"go.uber.org/zap"
	"sync"
	"time"
)

// Cache owns the in-memory version manifest. Every read and every instance
// creation goes through its single lock, so a refresh never interleaves with
// an acquisition.
type Cache struct {
	client *Client
	ttl    time.Duration
	logger *zap.Logger

	r        *rescheduler.Rescheduler
	mu       *sync.Mutex
	loaded   time.Time
	manifest *VersionManifest
}

func NewCache(client *Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("manifest-cache"),
		mu:     new(sync.Mutex),
	}
	c.r = rescheduler.NewRescheduler(c.refreshStale)
	return c
}

// Refresh replaces the held manifest with a freshly fetched one.
func (c *Cache) Refresh(ctx context.Context) error {
	m, err := c.client.VersionManifest(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifest = m
	c.loaded = time.Now()
	c.logger.Info("Loaded version manifest", zap.Int("versions", len(m.Versions)), zap.String("latest", m.Latest.Release))
	return nil
}

func (c *Cache) stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.manifest == nil {
		return true
	}
	return c.ttl > 0 && time.Since(c.loaded) > c.ttl
}

func (c *Cache) refreshStale() {
	if !c.stale() {
		return
	}
	if err := c.Refresh(context.Background()); err != nil {
		c.logger.Warn("Failed to refresh version manifest", zap.Error(err))
	}
}

// Ensure loads the manifest when it is missing or older than the ttl and
// waits for the refresh to settle. Concurrent callers share one refresh.
func (c *Cache) Ensure() {
	if !c.stale() {
		return
	}
	c.r.Run()
	c.r.Wait()
}

// Loaded reports when the held manifest was fetched. The zero time means it
// has not been loaded.
func (c *Cache) Loaded() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Cache) current() (*VersionManifest, error) {
	if c.manifest == nil {
		return nil, acqerr.ResourceNotReady("version manifest")
	}
	return c.manifest, nil
}

// Lookup finds id in the held manifest.
func (c *Cache) Lookup(id string) (VersionEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.current()
	if err != nil {
		return VersionEntry{}, err
	}
	return m.Find(id)
}

// Versions lists known version ids, releases only unless includeSnapshots.
func (c *Cache) Versions(includeSnapshots bool) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.current()
	if err != nil {
		return nil, err
	}
	return m.IDs(includeSnapshots), nil
}

// Releases returns the semver shaped release ids, newest first.
func (c *Cache) Releases() ([]*semver.Version, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.current()
	if err != nil {
		return nil, err
	}
	return m.Releases(), nil
}

// Hold runs fn with the manifest while holding the cache lock. fn must not
// call back into the cache.
func (c *Cache) Hold(fn func(m *VersionManifest) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, err := c.current()
	if err != nil {
		return err
	}
	return fn(m)
}
