// Package imaging provides the raster helpers shared by capture and
// calibration: a decoded-image cache, bounds-checked crops, scaling, and the
// calibration sheet that draws the configured capture regions over a
// screenshot.
//
// # Coordinate System
//
// All coordinates are in screen pixels with (0,0) at the top-left of the
// image passed in. Rectangles follow image.Rectangle: Min is inclusive, Max is
// exclusive. Screenshots of the whole virtual desktop start at the desktop
// origin, which may be negative on multi-monitor setups; callers translate
// region rectangles with Rectangle.Add before cropping.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions never mutate
// their input and return fresh images, so they can run concurrently on the
// same source image.
package imaging
