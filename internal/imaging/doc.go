// Package imaging provides the pixel-level operations behind structure detection.
//
// It loads and caches screenshots, measures the horizontal brightness profile used
// to find the instruction band, computes Canny-style edge masks for the contour
// pass, crops boxes out of an image and renders annotated debug overlays. All
// operations work with standard Go image.Image types.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward. Boxes are layout.Box values: the top-left
// corner is inclusive and X+W, Y+H are exclusive.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless and
// never modify their input images.
//
// # Error Handling
//
// Open and ImageCache.Load wrap ErrUnreadableImage when a file is missing or does
// not decode to a non-empty image. Cropping fails for empty boxes and boxes that
// leave the image. Overlay saving fails on encoding or I/O errors.
//
// # Libraries
//
// Blurring, grayscale conversion and dilation use github.com/anthonynsimon/bild.
// Cropping, cloning, pasting and saving use github.com/disintegration/imaging.
// Overlay colors come from github.com/lucasb-eyer/go-colorful and labels are drawn
// with the golang.org/x/image basicfont face.
package imaging
