package capture

import (
	"image"

	"github.com/ironsheep/hextech-overlay/internal/imaging"
)

// File replays a saved screenshot. Origin is the screen position of the
// screenshot's top-left pixel, so regions configured in screen coordinates
// crop the same area they would on the live desktop.
type File struct {
	Path   string
	Origin image.Point
	Cache  *imaging.ImageCache
}

// FileFactory returns a Factory whose capturers share cache. Closing a
// capturer evicts the screenshot, so a closed pool holds no decoded image.
func FileFactory(path string, origin image.Point, cache *imaging.ImageCache) Factory {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	return func() (Capturer, error) {
		return &File{Path: path, Origin: origin, Cache: cache}, nil
	}
}

// Capture crops r from the screenshot.
func (f *File) Capture(r image.Rectangle) (image.Image, error) {
	cache := f.Cache
	if cache == nil {
		cache = imaging.NewImageCache()
		f.Cache = cache
	}
	img, err := cache.Load(f.Path)
	if err != nil {
		return nil, err
	}
	local := r.Sub(f.Origin).Add(img.Bounds().Min)
	return imaging.Crop(img, local)
}

// Close evicts the screenshot from the shared cache.
func (f *File) Close() error {
	if f.Cache != nil {
		f.Cache.Evict(f.Path)
	}
	return nil
}
