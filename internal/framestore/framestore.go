/*
NAME
  framestore.go

DESCRIPTION
  framestore defines the abstract frame store the stream assembler
  writes data frames to and reads extracted frames from, plus a
  PNG-on-disk implementation (the reference realization named in
  spec.md) and an in-memory implementation used by tests and by any
  caller that wants to skip the filesystem entirely.
*/

// Package framestore provides the abstract ordered-raster-sequence
// store used between the pixel codec and the external video encoder.
package framestore

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/vortexcodec/vortex/internal/params"
	"github.com/vortexcodec/vortex/internal/vortexerr"
)

// Identifier names one frame within a store. Identifiers sort in the
// natural order the store iterates them.
type Identifier string

// Store produces and consumes an ordered, numbered sequence of raster
// images on a backing store.
type Store interface {
	// Clear removes all frames from the store, leaving it empty.
	Clear() error

	// PathFor returns the identifier a data or guard frame at the given
	// 0-based index should be saved under. Smaller indices sort
	// strictly before larger ones.
	PathFor(index int) Identifier

	// EnumerateExtracted returns the identifiers of frames produced by
	// the extractor (the external video decoder), in the order they
	// must be consumed.
	EnumerateExtracted() ([]Identifier, error)

	// SaveRaster persists raster, which must hold DataDims() worth of
	// RGB triples, under id.
	SaveRaster(id Identifier, raster []byte) error

	// LoadRaster reads the raster stored under id at video-space
	// dimensions (DownsampleScaler*DataDims()), returning RGB triples,
	// row-major.
	LoadRaster(id Identifier) ([]byte, error)
}

// rgbImage adapts a packed, row-major RGB byte buffer to image.Image
// without an alpha channel, so png.Encode writes a true RGB (color
// type 2) PNG rather than RGBA.
type rgbImage struct {
	pix    []byte
	w, h int
}

func (m *rgbImage) ColorModel() color.Model { return color.RGBAModel }
func (m *rgbImage) Bounds() image.Rectangle { return image.Rect(0, 0, m.w, m.h) }
func (m *rgbImage) Opaque() bool            { return true }
func (m *rgbImage) At(x, y int) color.Color {
	i := (y*m.w + x) * 3
	return color.RGBA{R: m.pix[i], G: m.pix[i+1], B: m.pix[i+2], A: 255}
}

// DirStore is the reference frame store realization: a scratch
// directory holding one PNG file per frame, named so that lexicographic
// order matches frame index order.
type DirStore struct {
	Dir    string
	Params *params.Parameters
}

// NewDirStore returns a DirStore rooted at dir for the given
// Parameters. The directory is not created until Clear is called.
func NewDirStore(dir string, p *params.Parameters) *DirStore {
	return &DirStore{Dir: dir, Params: p}
}

// Clear implements Store by deleting and recreating the scratch
// directory.
func (s *DirStore) Clear() error {
	if err := os.RemoveAll(s.Dir); err != nil {
		return vortexerr.NewIO("clearing frame store directory", err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return vortexerr.NewIO("recreating frame store directory", err)
	}
	return nil
}

// PathFor implements Store, naming frames the way the external encoder
// expects to glob them: combineNNNNNNNNNNNN.png, zero-padded to 12
// digits.
func (s *DirStore) PathFor(index int) Identifier {
	return Identifier(filepath.Join(s.Dir, fmt.Sprintf("combine%012d.png", index)))
}

// CombineGlob returns the glob pattern the external encoder uses to
// pick up frames written by SaveRaster.
func (s *DirStore) CombineGlob() string {
	return filepath.Join(s.Dir, "combine*.png")
}

// SplitGlob returns the glob pattern frames extracted by the external
// decoder are written under.
func (s *DirStore) SplitGlob() string {
	return filepath.Join(s.Dir, "split*.png")
}

// EnumerateExtracted implements Store by globbing split*.png in
// lexical order, which filepath.Glob already guarantees and which
// matches numeric order for the fixed-width zero-padded names the
// external decoder produces (split%09d.png).
func (s *DirStore) EnumerateExtracted() ([]Identifier, error) {
	matches, err := filepath.Glob(s.SplitGlob())
	if err != nil {
		return nil, vortexerr.NewIO("globbing extracted frames", err)
	}
	sort.Strings(matches)
	ids := make([]Identifier, len(matches))
	for i, m := range matches {
		ids[i] = Identifier(m)
	}
	return ids, nil
}

// SaveRaster implements Store by PNG-encoding raster at data-space
// dimensions.
func (s *DirStore) SaveRaster(id Identifier, raster []byte) error {
	w, h := s.Params.DataDims()
	want := int(w) * int(h) * 3
	if len(raster) != want {
		return vortexerr.Framingf("framestore: raster length (%d) does not match data dims product (%d)", len(raster), want)
	}

	img := &rgbImage{pix: raster, w: int(w), h: int(h)}
	f, err := os.Create(string(id))
	if err != nil {
		return vortexerr.NewIO("creating frame file", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return vortexerr.NewIO("encoding frame as PNG", err)
	}
	return nil
}

// LoadRaster implements Store by PNG-decoding the frame at id and
// validating it matches video-space dimensions.
func (s *DirStore) LoadRaster(id Identifier) ([]byte, error) {
	f, err := os.Open(string(id))
	if err != nil {
		return nil, vortexerr.NewIO("opening frame file", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, vortexerr.NewIO("decoding frame PNG", err)
	}

	w, h := s.Params.DataDims()
	wantW, wantH := int(w)*params.DownsampleScaler, int(h)*params.DownsampleScaler
	bounds := img.Bounds()
	if bounds.Dx() != wantW || bounds.Dy() != wantH {
		return nil, errors.Errorf(
			"framestore: frame %s dimensions (%dx%d) do not match expected video-space dims (%dx%d)",
			id, bounds.Dx(), bounds.Dy(), wantW, wantH,
		)
	}

	out := make([]byte, 0, wantW*wantH*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out = append(out, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}
	return out, nil
}

// MemStore is an in-memory Store, used by tests and by callers that
// want to skip the filesystem (e.g. a no-op "video encoder" that just
// concatenates frames, per spec.md's test-harness guidance).
type MemStore struct {
	Params  *params.Parameters
	frames  map[Identifier][]byte
	written []Identifier

	// Extracted, when non-nil, overrides EnumerateExtracted's result;
	// it lets a test stand in for the external encoder/decoder pair by
	// copying written frames into extracted ones (optionally perturbed)
	// without touching disk.
	Extracted []Identifier
}

// NewMemStore returns an empty MemStore for the given Parameters.
func NewMemStore(p *params.Parameters) *MemStore {
	return &MemStore{Params: p, frames: map[Identifier][]byte{}}
}

// Clear implements Store.
func (s *MemStore) Clear() error {
	s.frames = map[Identifier][]byte{}
	s.written = nil
	s.Extracted = nil
	return nil
}

// PathFor implements Store, using a fixed-width decimal identifier so
// natural string ordering matches index ordering.
func (s *MemStore) PathFor(index int) Identifier {
	return Identifier(fmt.Sprintf("combine%012d", index))
}

// Written returns the identifiers saved so far, in write order.
func (s *MemStore) Written() []Identifier { return s.written }

// EnumerateExtracted implements Store. If Extracted has been set
// explicitly, it is returned as-is; otherwise the written frames are
// returned unchanged, simulating a lossless "video" round-trip.
func (s *MemStore) EnumerateExtracted() ([]Identifier, error) {
	if s.Extracted != nil {
		return s.Extracted, nil
	}
	out := make([]Identifier, len(s.written))
	copy(out, s.written)
	return out, nil
}

// SaveRaster implements Store.
func (s *MemStore) SaveRaster(id Identifier, raster []byte) error {
	w, h := s.Params.DataDims()
	want := int(w) * int(h) * 3
	if len(raster) != want {
		return vortexerr.Framingf("framestore: raster length (%d) does not match data dims product (%d)", len(raster), want)
	}
	cp := make([]byte, len(raster))
	copy(cp, raster)
	s.frames[id] = cp
	s.written = append(s.written, id)
	return nil
}

// LoadRaster implements Store. Since MemStore never actually
// scales to video-space, it upsamples each data unit into a
// DownsampleScaler x DownsampleScaler block of identical pixels, so
// the block-average downsample step in internal/assembler is a
// faithful (lossless) inverse.
func (s *MemStore) LoadRaster(id Identifier) ([]byte, error) {
	raster, ok := s.frames[id]
	if !ok {
		return nil, vortexerr.NewIO("loading frame", errors.Errorf("no such frame %q", id))
	}
	w, h := s.Params.DataDims()
	k := params.DownsampleScaler
	out := make([]byte, 0, int(w)*k*int(h)*k*3)
	for by := 0; by < int(h); by++ {
		row := make([]byte, 0, int(w)*k*3)
		for bx := 0; bx < int(w); bx++ {
			i := (by*int(w) + bx) * 3
			px := raster[i : i+3]
			for x := 0; x < k; x++ {
				row = append(row, px...)
			}
		}
		for y := 0; y < k; y++ {
			out = append(out, row...)
		}
	}
	return out, nil
}

// SetFromPNG replaces the raw data the identifier loads back with the
// result of an actual PNG encode/decode round-trip (lossless, but
// exercises the same color-model conversion DirStore relies on), so
// tests can catch PNG-layer bugs without touching disk. It does not
// simulate the lossy artifacts introduced by the external video codec;
// that noise is injected directly at the byte or bit level in tests
// that need it.
func (s *MemStore) SetFromPNG(id Identifier, raster []byte) error {
	var buf bytes.Buffer
	w, h := s.Params.DataDims()
	img := &rgbImage{pix: raster, w: int(w), h: int(h)}
	if err := png.Encode(&buf, img); err != nil {
		return vortexerr.NewIO("encoding frame as PNG", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		return vortexerr.NewIO("decoding frame PNG", err)
	}
	bounds := decoded.Bounds()
	out := make([]byte, 0, bounds.Dx()*bounds.Dy()*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := decoded.At(x, y).RGBA()
			out = append(out, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}
	s.frames[id] = out
	return nil
}
