package analysis

import (
	"rommap/internal/rom"
	"rommap/internal/romx"
)

// InferSize estimates the extent of a region starting at off by growing a
// window in InferStep increments until the classification changes, the
// window would exceed InferCap, or the image ends. It returns the largest
// stable size and its kind. The size is always a multiple of InferStep;
// it is 0 when fewer than InferStep bytes remain.
func (c *Classifier) InferSize(im *romx.Image, off int) (int, rom.Kind) {
	b, ok := im.Slice(off, InferStep)
	if !ok {
		return 0, rom.KindUnknown
	}
	size := InferStep
	kind := c.Classify(b)

	for next := size + InferStep; next <= InferCap; next += InferStep {
		b, ok := im.Slice(off, next)
		if !ok {
			break
		}
		if c.Classify(b) != kind {
			break
		}
		size = next
	}
	return size, kind
}
