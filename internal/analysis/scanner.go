package analysis

import (
	"context"
	"encoding/binary"

	"golang.org/x/sync/errgroup"

	"rommap/internal/rom"
	"rommap/internal/romx"
)

// ScanPointers reports every 4-byte-aligned little-endian word of im whose
// value lies inside w, in ascending offset order. Misaligned pointers are
// not found.
func ScanPointers(ctx context.Context, im *romx.Image, w romx.Window) ([]rom.Pointer, error) {
	return scanRange(ctx, im.All, 0, len(im.All), w)
}

// ScanPointersParallel is ScanPointers split over up to workers goroutines,
// each scanning a disjoint aligned slice of the image. The merged result is
// identical to the sequential scan.
func ScanPointersParallel(ctx context.Context, im *romx.Image, w romx.Window, workers int) ([]rom.Pointer, error) {
	words := len(im.All) / WordSize
	if workers <= 1 || len(im.All) < minParallelScan {
		return ScanPointers(ctx, im, w)
	}
	if workers > words {
		workers = words
	}

	per := (words + workers - 1) / workers
	batches := make([][]rom.Pointer, workers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		start := i * per * WordSize
		end := min((i+1)*per*WordSize, words*WordSize)
		if start >= end {
			continue
		}
		g.Go(func() error {
			ptrs, err := scanRange(gctx, im.All, start, end, w)
			batches[i] = ptrs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := 0
	for _, b := range batches {
		n += len(b)
	}
	out := make([]rom.Pointer, 0, n)
	for _, b := range batches {
		out = append(out, b...)
	}
	return out, nil
}

// scanRange scans the aligned words starting in [start, end).
func scanRange(ctx context.Context, buf []byte, start, end int, w romx.Window) ([]rom.Pointer, error) {
	var out []rom.Pointer
	n := 0
	for off := start; off < end && off+WordSize <= len(buf); off += WordSize {
		if n++; n%scanCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw := binary.LittleEndian.Uint32(buf[off:])
		to, ok := w.Off(raw)
		if !ok {
			continue
		}
		out = append(out, rom.Pointer{From: off, To: to, Raw: raw})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
