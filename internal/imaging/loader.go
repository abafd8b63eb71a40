package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// ImageCache provides thread-safe caching of decoded drawings keyed by path.
//
// A drawing is typically loaded once by ga_load and then read again by every
// detect, classify and export call, so only the first call pays for decoding
// (and, for PDFs, raster extraction).
//
// Cached images remain in memory until removed via Evict() or Clear().
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path or decodes it from disk.
//
// Files ending in .pdf go through the PDF extractor; everything else is
// decoded with the registered image decoders (PNG, JPEG, GIF, TIFF).
//
// The cache key is the exact path string; relative and absolute paths to the
// same file are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	var (
		img image.Image
		err error
	)
	if IsPDF(path) {
		img, err = decodePDF(path)
	} else {
		img, err = decodeFile(path)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Put stores an already decoded image under path, replacing any entry.
func (c *ImageCache) Put(path string, img image.Image) {
	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes one path from the cache. The next Load reads from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// IsPDF reports whether path names a PDF by extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	switch Format(path) {
	case "png", "jpeg", "gif", "tiff", "pdf":
		return true
	}
	return false
}

// Format names the input format from the file extension: "png", "jpeg",
// "gif", "tiff", "pdf" or "unknown".
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".pdf":
		return "pdf"
	}
	return "unknown"
}

// ImageInfo describes a loaded drawing.
type ImageInfo struct {
	// Path is the file the drawing was loaded from.
	Path string `json:"path"`

	// Width and Height are the raster size in pixels. For a PDF this is the
	// size of the extracted page image.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the input format, see Format.
	Format string `json:"format"`

	// Grayscale is true when the decoded raster has a single channel.
	Grayscale bool `json:"grayscale"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path through the cache and reports its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	grayscale := false
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		grayscale = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Path:          path,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        Format(path),
		Grayscale:     grayscale,
		FileSizeBytes: stat.Size(),
	}, nil
}
