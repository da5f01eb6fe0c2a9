package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
	"sync"
)

// FrameCache provides thread-safe caching of decoded frames keyed by path.
//
// Frame files are typically re-read several times in a row: once to
// recognize, again to annotate. Once a frame is loaded, subsequent Load
// calls for the same path return the cached copy without disk I/O.
//
// Cached frames remain in memory until explicitly removed via Evict() or
// Clear(). Clients streaming many distinct frames should evict each one when
// they are done with it.
type FrameCache struct {
	mu     sync.RWMutex
	frames map[string]image.Image
}

// NewFrameCache creates and initializes a new empty frame cache.
func NewFrameCache() *FrameCache {
	return &FrameCache{
		frames: make(map[string]image.Image),
	}
}

// Load retrieves a frame from the cache or decodes it from disk.
//
// Parameters:
//   - path: Absolute or relative path to the frame. Supported formats are
//     PNG, JPEG, and GIF.
//
// Returns:
//   - image.Image: The decoded frame in the capture buffer's orientation.
//     The concrete type depends on the format (e.g., *image.RGBA,
//     *image.NRGBA, *image.YCbCr).
//   - error: Non-nil if the file cannot be opened or decoded.
//
// The frame is cached using the exact path string provided, so different
// paths to the same file result in separate cache entries.
func (c *FrameCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.frames[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	c.mu.Lock()
	c.frames[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all frames from the cache.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	c.frames = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a frame from the cache. Unknown paths are ignored.
func (c *FrameCache) Evict(path string) {
	c.mu.Lock()
	delete(c.frames, path)
	c.mu.Unlock()
}

// Len returns the number of cached frames.
func (c *FrameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.frames)
}

// DecodeBase64 decodes a base64 frame, with or without a data URL prefix
// such as "data:image/png;base64,". Decoded frames are not cached.
func DecodeBase64(data string) (image.Image, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 frame: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

// FrameInfo describes a frame.
type FrameInfo struct {
	// Width is the frame width in pixels.
	Width int `json:"width"`

	// Height is the frame height in pixels.
	Height int `json:"height"`

	// Landscape is true when the frame is wider than tall, as capture
	// buffers normally are.
	Landscape bool `json:"landscape"`
}

// Info returns the dimensions of img.
func Info(img image.Image) FrameInfo {
	b := img.Bounds()
	return FrameInfo{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Landscape: b.Dx() > b.Dy(),
	}
}
