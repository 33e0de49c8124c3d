package imaging

import (
	"image"
	"os"
	"sync"
	"time"

	"github.com/kk-code-lab/vimview/internal/logging"
)

const DefaultCacheSize = 8

type cacheEntry struct {
	img     image.Image
	meta    Meta
	err     error
	modTime time.Time
	size    int64
}

type frameKey struct {
	path     string
	cols     int
	rows     int
	zoom     float64
	rotation int
}

// Cache keeps the most recently decoded images. An entry is reused only
// while the file's size and modification time are unchanged. It is safe for
// concurrent use so neighbours can be decoded in the background.
type Cache struct {
	mu      sync.Mutex
	limit   int
	entries map[string]*cacheEntry
	order   []string
	pending map[string]bool

	lastKey   frameKey
	lastImg   image.Image
	lastFrame *Frame

	decode func(string) (image.Image, Meta, error)
}

func NewCache(limit int) *Cache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &Cache{
		limit:   limit,
		entries: make(map[string]*cacheEntry),
		pending: make(map[string]bool),
		decode:  Decode,
	}
}

// Load returns the decoded image at path, decoding it when needed.
func (c *Cache) Load(path string) (image.Image, Meta, error) {
	info, statErr := os.Stat(path)

	c.mu.Lock()
	if entry, ok := c.entries[path]; ok && statErr == nil &&
		entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		c.touchLocked(path)
		c.mu.Unlock()
		return entry.img, entry.meta, entry.err
	}
	c.mu.Unlock()

	img, meta, err := c.decode(path)
	if statErr == nil {
		c.store(path, &cacheEntry{img: img, meta: meta, err: err, modTime: info.ModTime(), size: info.Size()})
	}
	return img, meta, err
}

// Frame lays out the image at path for a cols×rows area. The most recent
// frame is memoised since redraws far outnumber view changes.
func (c *Cache) Frame(path string, cols, rows int, zoom float64, rotation int) (*Frame, Meta, error) {
	img, meta, err := c.Load(path)
	if err != nil {
		return nil, meta, err
	}

	key := frameKey{path: path, cols: cols, rows: rows, zoom: zoom, rotation: rotation}
	c.mu.Lock()
	if c.lastFrame != nil && c.lastKey == key && c.lastImg == img {
		frame := c.lastFrame
		c.mu.Unlock()
		return frame, meta, nil
	}
	c.mu.Unlock()

	frame := Layout(img, cols, rows, zoom, rotation)

	c.mu.Lock()
	c.lastKey = key
	c.lastImg = img
	c.lastFrame = frame
	c.mu.Unlock()
	return frame, meta, nil
}

// Prefetch decodes paths in the background so stepping to a neighbour does
// not stall on the decoder.
func (c *Cache) Prefetch(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		c.mu.Lock()
		_, cached := c.entries[path]
		busy := c.pending[path]
		if !cached && !busy {
			c.pending[path] = true
		}
		c.mu.Unlock()
		if cached || busy {
			continue
		}

		go func(p string) {
			if _, _, err := c.Load(p); err != nil {
				logging.WithOp("prefetch").WithField("path", p).Debug(err)
			}
			c.mu.Lock()
			delete(c.pending, p)
			c.mu.Unlock()
		}(path)
	}
}

// Forget drops path, e.g. after the file was moved away.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
	c.removeOrderLocked(path)
	if c.lastKey.path == path {
		c.lastFrame = nil
		c.lastImg = nil
		c.lastKey = frameKey{}
	}
}

// Len reports the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) store(path string, entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry
	c.touchLocked(path)
	for len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *Cache) touchLocked(path string) {
	c.removeOrderLocked(path)
	c.order = append(c.order, path)
}

func (c *Cache) removeOrderLocked(path string) {
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
