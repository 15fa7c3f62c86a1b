/*
Package thumbnail implements the small preview images stored alongside each
photo in the metadata cache.

A thumbnail is the photo scaled down to fit within 128 by 128 pixels, keeping
its aspect ratio, reduced to a palette of at most 256 colors and stored as a
paletted PNG. Images already smaller than the limit are not scaled up.
*/
package thumbnail

const (
	maxWidth  = 128
	maxHeight = maxWidth
	maxColors = 256
)
