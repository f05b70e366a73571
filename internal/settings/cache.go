package settings

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/expresCocina/Italia-atalear/internal/db/controller/setting"
)

// Cache is a small in-memory mapping from settings key to last-known
// value plus a per-key loading flag. Reads before hydration return the
// declared default, so consumers can render immediately and pick up
// the stored value once it arrives. The cache holds no staleness
// policy; call Refresh or Hydrate to re-read the store.
type Cache struct {
	db *gorm.DB

	mu     sync.RWMutex
	values map[string]string
	loaded map[string]bool
	subs   map[string]map[int]chan string
	nextID int
}

// NewCache creates a cache seeded with the recognized defaults. No key
// is marked loaded until it has been read from the store.
func NewCache(db *gorm.DB) *Cache {
	values := make(map[string]string, len(Defaults()))
	for _, d := range Defaults() {
		values[d.Key] = d.Value
	}

	return &Cache{
		db:     db,
		values: values,
		loaded: make(map[string]bool, len(values)),
		subs:   make(map[string]map[int]chan string),
	}
}

// Get returns the last-known value for a recognized key and whether the
// value has been hydrated from the store yet. Before hydration the
// declared default is returned with loaded=false.
func (c *Cache) Get(key string) (string, bool, error) {
	if !IsRecognized(key) {
		return "", false, ErrUnknownKey
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.values[key], c.loaded[key], nil
}

// Hydrate loads the full settings table into the cache in one read and
// marks every recognized key loaded. Keys present in the store but not
// in the declared schema are logged and skipped.
func (c *Cache) Hydrate() error {
	rows, err := setting.GetAll(c.db)
	if err != nil {
		return err
	}

	c.mu.Lock()

	for _, row := range rows {
		if !IsRecognized(row.Key) {
			log.Warn().Str("key", row.Key).Msg("ignoring unrecognized settings key")
			continue
		}

		c.setLocked(row.Key, row.Value)
	}

	for _, d := range Defaults() {
		c.loaded[d.Key] = true
	}

	c.mu.Unlock()

	return nil
}

// Refresh re-reads a single key from the store. A missing row falls
// back to the declared default; the key is marked loaded either way.
func (c *Cache) Refresh(key string) (string, error) {
	if !IsRecognized(key) {
		return "", ErrUnknownKey
	}

	value := ""

	row, err := setting.Get(c.db, key)
	switch {
	case err == nil:
		value = row.Value
	case errors.Is(err, setting.ErrSettingNotFound):
		value, _ = DefaultValue(key)
	default:
		return "", err
	}

	c.mu.Lock()
	c.setLocked(key, value)
	c.loaded[key] = true
	c.mu.Unlock()

	return value, nil
}

// Set writes a recognized key through to the store and updates the
// cache on success, so readers observe the write immediately.
func (c *Cache) Set(key, value string) error {
	if !IsRecognized(key) {
		return ErrUnknownKey
	}

	if _, err := setting.Upsert(c.db, key, value, "", ""); err != nil {
		return err
	}

	c.mu.Lock()
	c.setLocked(key, value)
	c.loaded[key] = true
	c.mu.Unlock()

	return nil
}

// SaveAll writes a batch of recognized keys through the store's
// concurrent batch path, then refreshes the touched keys. Like the
// underlying batch, a partial failure can leave some keys written and
// others not; the first error is returned.
func (c *Cache) SaveAll(values map[string]string) error {
	for key := range values {
		if !IsRecognized(key) {
			return ErrUnknownKey
		}
	}

	saveErr := setting.SaveAll(c.db, values)

	// Refresh regardless of the batch outcome so the cache reflects
	// whatever subset actually landed.
	for key := range values {
		if _, err := c.Refresh(key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to refresh settings cache")
		}
	}

	return saveErr
}

// Snapshot returns a copy of the current key/value mapping.
func (c *Cache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}

	return out
}

// Subscribe registers for change notifications on one key. It returns a
// receive channel and an unsubscribe function the consumer must call
// when its own lifecycle ends, so subscriptions are not leaked. Slow
// consumers miss intermediate values rather than block writers.
func (c *Cache) Subscribe(key string) (<-chan string, func(), error) {
	if !IsRecognized(key) {
		return nil, nil, ErrUnknownKey
	}

	ch := make(chan string, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++

	if c.subs[key] == nil {
		c.subs[key] = make(map[int]chan string)
	}
	c.subs[key][id] = ch
	c.mu.Unlock()

	// closing the channel ends a ranging consumer; notifications are
	// sent under the same lock, so no send can race the close
	unsubscribe := func() {
		c.mu.Lock()
		if subs, ok := c.subs[key]; ok {
			if _, live := subs[id]; live {
				delete(subs, id)
				close(ch)
			}
		}
		c.mu.Unlock()
	}

	return ch, unsubscribe, nil
}

// setLocked stores a value and notifies subscribers. Callers must hold
// the write lock.
func (c *Cache) setLocked(key, value string) {
	if c.values[key] == value {
		return
	}

	c.values[key] = value

	for _, ch := range c.subs[key] {
		// Keep only the latest value for consumers that have not
		// drained the channel yet.
		select {
		case <-ch:
		default:
		}

		select {
		case ch <- value:
		default:
		}
	}
}
