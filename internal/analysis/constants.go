// Package analysis discovers undocumented regions of a cartridge image. It
// scans for words that look like pointers into the cartridge window, groups
// them into tables, and grows a region from every unexplained pointer target
// until the local byte statistics change.
package analysis

// Constants for discovery
const (
	// WordSize is the pointer size and scan stride.
	WordSize = 4

	// MinTableEntries is the shortest run of adjacent pointers treated as a table.
	MinTableEntries = 4

	// TableProbeWords is how many leading words the classifier inspects for pointers.
	TableProbeWords = 8

	// TableProbeHits is how many of those words must be pointers.
	TableProbeHits = 4

	// MinWindow is the smallest window the classifier will judge.
	MinWindow = 4

	// InferStep is the growth increment of the size inferencer.
	InferStep = 32

	// InferCap is the largest region the inferencer will propose.
	InferCap = 1024

	// scanCheckEvery is how many words are scanned between cancellation checks.
	scanCheckEvery = 1 << 16

	// minParallelScan is the image size below which scanning stays on one goroutine.
	minParallelScan = 1 << 16
)

// DataMarkers are header bytes of the GBA BIOS decompression formats
// (LZ77, Huffman 4/8-bit, run-length) that open most compressed assets.
var DataMarkers = []byte{0x10, 0x24, 0x28, 0x30}
