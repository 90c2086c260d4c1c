// Package cache provides an LRU cache of structuring results with disk
// persistence, so unchanged functions are not structured again across runs.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Result is the cached outcome of structuring one function.
type Result struct {
	Function string `msgpack:"function"`
	Output   string `msgpack:"output"`          // Rendered structured code
	Error    string `msgpack:"error,omitempty"` // Structuring failure, empty on success
}

// Failed reports whether the cached outcome is a structuring failure.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Entry represents a cache entry with metadata.
type Entry struct {
	Key        string    `msgpack:"key"`
	Value      Result    `msgpack:"value"`
	AccessedAt time.Time `msgpack:"accessed_at"`
	CreatedAt  time.Time `msgpack:"created_at"`
}

// listItem is an item in the doubly-linked list.
type listItem struct {
	Entry
	prev *listItem
	next *listItem
}

// list represents a doubly-linked list.
type list struct {
	head *listItem // most recently accessed
	tail *listItem // least recently accessed
	len  int
}

// unlink removes an item from the list.
func (l *list) unlink(item *listItem) {
	if item.prev != nil {
		item.prev.next = item.next
	} else {
		l.head = item.next
	}
	if item.next != nil {
		item.next.prev = item.prev
	} else {
		l.tail = item.prev
	}
	item.prev, item.next = nil, nil
	l.len--
}

// pushFront adds an item to the front of the list.
func (l *list) pushFront(item *listItem) {
	item.next = l.head
	item.prev = nil
	if l.head != nil {
		l.head.prev = item
	}
	l.head = item
	if l.tail == nil {
		l.tail = item
	}
	l.len++
}

// Options configures the LRU cache.
type Options struct {
	// MaxSize is the maximum number of entries.
	// 0 means unlimited.
	MaxSize int

	// OnEvict is called when an entry is evicted.
	OnEvict func(key string, value Result)
}

// Stats holds hit and miss counters.
type Stats struct {
	Hits   int64
	Misses int64
}

// LRUCache is an in-memory LRU cache with optional disk persistence.
// It is safe for concurrent use.
type LRUCache struct {
	mu      sync.Mutex
	items   map[string]*listItem
	lru     list
	maxSize int
	onEvict func(key string, value Result)
	stats   Stats
}

// New creates a new LRU cache with the given options.
func New(opts Options) *LRUCache {
	return &LRUCache{
		items:   make(map[string]*listItem),
		maxSize: opts.MaxSize,
		onEvict: opts.OnEvict,
	}
}

// Get retrieves a result and marks it most recently used.
func (c *LRUCache) Get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		c.stats.Misses++
		return Result{}, false
	}

	c.stats.Hits++
	item.AccessedAt = time.Now()
	c.lru.unlink(item)
	c.lru.pushFront(item)
	return item.Value, true
}

// Set stores a result, evicting the least recently used entries if needed.
func (c *LRUCache) Set(key string, value Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if item, exists := c.items[key]; exists {
		item.Value = value
		item.AccessedAt = now
		c.lru.unlink(item)
		c.lru.pushFront(item)
		return
	}

	item := &listItem{
		Entry: Entry{
			Key:        key,
			Value:      value,
			AccessedAt: now,
			CreatedAt:  now,
		},
	}
	c.items[key] = item
	c.lru.pushFront(item)

	c.evictIfNeeded()
}

// Delete removes a key from the cache.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.items[key]
	if !found {
		return
	}
	c.lru.unlink(item)
	delete(c.items, key)
}

// Len returns the number of entries in the cache.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns the hit and miss counters.
func (c *LRUCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// evictIfNeeded evicts entries while the cache exceeds MaxSize.
func (c *LRUCache) evictIfNeeded() {
	for c.maxSize > 0 && c.lru.len > c.maxSize {
		item := c.lru.tail
		c.lru.unlink(item)
		delete(c.items, item.Key)

		if c.onEvict != nil {
			c.onEvict(item.Key, item.Value)
		}
	}
}

// Save persists the cache to a writer using msgpack, most recently used first.
func (c *LRUCache) Save(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, len(c.items))
	for item := c.lru.head; item != nil; item = item.next {
		entries = append(entries, item.Entry)
	}

	return msgpack.NewEncoder(w).Encode(entries)
}

// Load replaces the cache contents with entries read from r using msgpack.
func (c *LRUCache) Load(r io.Reader) error {
	var entries []Entry
	if err := msgpack.NewDecoder(r).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode cache: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*listItem, len(entries))
	c.lru = list{}

	for i := len(entries) - 1; i >= 0; i-- {
		item := &listItem{Entry: entries[i]}
		c.items[item.Key] = item
		c.lru.pushFront(item)
	}
	c.evictIfNeeded()

	return nil
}

// PersistToFile saves the cache to a file, creating parent directories.
func PersistToFile(c *LRUCache, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	return c.Save(f)
}

// LoadFromFile loads the cache from a file. A missing file leaves the cache empty.
func LoadFromFile(c *LRUCache, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	return c.Load(f)
}
