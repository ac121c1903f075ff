// Package romx opens cartridge ROM images read-only and maps CPU addresses in
// the cartridge window to buffer offsets.
package romx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"syscall"
)

var (
	// ErrEmpty is returned for zero-length image files.
	ErrEmpty = errors.New("image is empty")
	// ErrTooSmall is returned when an image is shorter than the minimum
	// header size of its platform.
	ErrTooSmall = errors.New("image truncated below minimum header size")
)

// Image is a raw cartridge image. The byte buffer is shared read-only by
// every consumer and must never be written to.
type Image struct {
	Path string
	All  []byte
	f    *os.File
	mmap bool
}

// Open maps the file at path into memory read-only. minSize is the smallest
// image the caller can make sense of; shorter files fail with ErrTooSmall.
func Open(path string, minSize int) (*Image, error) {
	of, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	fi, err := of.Stat()
	if err != nil {
		of.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if fi.IsDir() {
		of.Close()
		return nil, fmt.Errorf("open file: %s is a directory", path)
	}
	size := fi.Size()
	if size == 0 {
		of.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if size < int64(minSize) {
		of.Close()
		return nil, fmt.Errorf("%s: %d bytes, need %d: %w", path, size, minSize, ErrTooSmall)
	}

	all, err := syscall.Mmap(int(of.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		of.Close()
		return nil, fmt.Errorf("mmap file: %w", err)
	}

	return &Image{Path: path, All: all, f: of, mmap: true}, nil
}

// FromBytes wraps an in-memory buffer. The buffer is not copied; callers
// hand over ownership and must not modify it afterwards.
func FromBytes(name string, b []byte) *Image {
	return &Image{Path: name, All: b}
}

// Close unmaps the memory and closes the underlying file.
func (im *Image) Close() error {
	var err1, err2 error
	if im.mmap && im.All != nil {
		err1 = syscall.Munmap(im.All)
	}
	im.All = nil
	if im.f != nil {
		err2 = im.f.Close()
		im.f = nil
	}
	if err1 != nil {
		return err1
	}
	return err2
}

// Len returns the image size in bytes.
func (im *Image) Len() int { return len(im.All) }

// Slice returns the bytes in [off, off+size). It returns (nil, false) if any
// part of the range lies outside the image.
func (im *Image) Slice(off, size int) ([]byte, bool) {
	if off < 0 || size < 0 || off > len(im.All) {
		return nil, false
	}
	if size == 0 {
		return []byte{}, true
	}
	end := off + size
	if end < off || end > len(im.All) {
		return nil, false
	}
	return im.All[off:end:end], true
}

// Clamp returns the bytes in [off, off+size) truncated to the image end.
func (im *Image) Clamp(off, size int) []byte {
	if off < 0 || off >= len(im.All) || size <= 0 {
		return nil
	}
	end := off + size
	if end > len(im.All) || end < off {
		end = len(im.All)
	}
	return im.All[off:end:end]
}

// Word32 reads a little-endian 32-bit word at off.
func (im *Image) Word32(off int) (uint32, bool) {
	b, ok := im.Slice(off, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

// Window is the CPU address range a cartridge is mapped at: [Base, Base+Span).
type Window struct {
	Base uint32
	Span uint32
}

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool { return w.Span == 0 }

// Contains reports whether addr lies inside the window.
func (w Window) Contains(addr uint32) bool {
	return w.Span != 0 && addr >= w.Base && addr-w.Base < w.Span
}

// Off translates a CPU address to a buffer offset.
func (w Window) Off(addr uint32) (int, bool) {
	if !w.Contains(addr) {
		return 0, false
	}
	return int(addr - w.Base), true
}

// Addr translates a buffer offset back to a CPU address.
func (w Window) Addr(off int) uint32 {
	return w.Base + uint32(off)
}
