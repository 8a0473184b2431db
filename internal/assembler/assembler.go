/*
NAME
  assembler.go

DESCRIPTION
  assembler ties together the pixel codec, Hamming SEC-DED codec,
  header codec and frame store into the end-to-end stream assembler:
  DeconstructFile turns a byte payload into a framed raster sequence
  with guard frames; ReconstructFile inverts that, tolerating the
  lossy artifacts a video codec round-trip may have introduced.
*/

// Package assembler implements the vortex stream assembler: the
// end-to-end bytes <-> framed-raster-sequence conversion.
package assembler

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/vortexcodec/vortex/internal/framestore"
	"github.com/vortexcodec/vortex/internal/hamming"
	"github.com/vortexcodec/vortex/internal/header"
	"github.com/vortexcodec/vortex/internal/params"
	"github.com/vortexcodec/vortex/internal/pixelcodec"
	"github.com/vortexcodec/vortex/internal/vortexerr"
	"github.com/vortexcodec/vortex/internal/vortexhex"
)

// Logger is the subset of github.com/ausocean/utils/logging.Logger the
// assembler needs, kept narrow so tests can supply a trivial stub
// instead of constructing a real logging.Logger.
type Logger interface {
	Debug(message string, params ...interface{})
	Info(message string, params ...interface{})
	Warning(message string, params ...interface{})
}

// noopLogger discards everything; used when no Logger is supplied.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})   {}
func (noopLogger) Info(string, ...interface{})    {}
func (noopLogger) Warning(string, ...interface{}) {}

// Assembler converts between arbitrary byte payloads and a framed,
// error-corrected, guard-bracketed raster sequence held in a
// framestore.Store.
type Assembler struct {
	Params *params.Parameters
	Store  framestore.Store
	Log    Logger
}

// New returns an Assembler over store using p. A nil logger is
// replaced with one that discards everything.
func New(p *params.Parameters, store framestore.Store, logger Logger) *Assembler {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Assembler{Params: p, Store: store, Log: logger}
}

// blankFrame returns a data-space raster encoding all-zero payload
// bytes: a guard frame.
func (a *Assembler) blankFrame() ([]byte, error) {
	blank := make([]byte, a.Params.BytesPerFrame())
	return pixelcodec.EncodeFrame(a.Params, blank)
}

// DeconstructFile encodes payload into the frame store: PreBuffer blank
// frames, then the triplicated header followed by the Hamming-encoded,
// frame-partitioned payload, then PostBuffer blank frames. It clears
// the store first, destroying any frames already present.
func (a *Assembler) DeconstructFile(payload []byte) error {
	h := header.Build(payload)

	if err := a.Store.Clear(); err != nil {
		return errors.Wrap(err, "clearing frame store before deconstruct")
	}

	index := 0
	blank, err := a.blankFrame()
	if err != nil {
		return errors.Wrap(err, "building blank guard frame")
	}
	for i := 0; i < params.PreBuffer; i++ {
		if err := a.Store.SaveRaster(a.Store.PathFor(index), blank); err != nil {
			return errors.Wrapf(err, "writing pre-buffer guard frame %d", index)
		}
		index++
	}

	padded := hamming.PadToChunk(append([]byte(nil), payload...))
	a.Log.Debug("encoding payload with hamming SEC-DED", "bytes", len(padded))
	encoded, err := hamming.Encode(padded)
	if err != nil {
		return errors.Wrap(err, "hamming-encoding payload")
	}

	stream := make([]byte, 0, len(h)+len(encoded))
	stream = append(stream, h...)
	stream = append(stream, encoded...)

	bpf := int(a.Params.BytesPerFrame())
	for off := 0; off < len(stream); off += bpf {
		end := off + bpf
		var chunk []byte
		if end > len(stream) {
			chunk = make([]byte, bpf)
			copy(chunk, stream[off:])
		} else {
			chunk = stream[off:end]
		}

		raster, err := pixelcodec.EncodeFrame(a.Params, chunk)
		if err != nil {
			return errors.Wrapf(err, "encoding data frame %d", index)
		}
		if err := a.Store.SaveRaster(a.Store.PathFor(index), raster); err != nil {
			return errors.Wrapf(err, "writing data frame %d", index)
		}
		index++
	}

	for i := 0; i < params.PostBuffer; i++ {
		if err := a.Store.SaveRaster(a.Store.PathFor(index), blank); err != nil {
			return errors.Wrapf(err, "writing post-buffer guard frame %d", index)
		}
		index++
	}

	a.Log.Info("deconstruct complete", "frames", index)
	return nil
}

// downsampleBlock averages a DownsampleScaler x DownsampleScaler block
// of video-space RGB pixels at data-unit (bx, by) into a single RGB
// triple, using integer arithmetic (sum then integer divide).
func downsampleBlock(videoRaster []byte, videoWidth, bx, by int) [3]byte {
	k := params.DownsampleScaler
	var rSum, gSum, bSum uint32
	for y := 0; y < k; y++ {
		for x := 0; x < k; x++ {
			px := (by*k+y)*videoWidth + (bx*k + x)
			i := px * 3
			rSum += uint32(videoRaster[i])
			gSum += uint32(videoRaster[i+1])
			bSum += uint32(videoRaster[i+2])
		}
	}
	n := uint32(k * k)
	return [3]byte{byte(rSum / n), byte(gSum / n), byte(bSum / n)}
}

// downsampleFrame reduces a video-space raster to a data-space raster
// by averaging each DownsampleScaler x DownsampleScaler block.
func (a *Assembler) downsampleFrame(videoRaster []byte) []byte {
	w, h := a.Params.DataDims()
	videoWidth := int(w) * params.DownsampleScaler
	out := make([]byte, 0, int(w)*int(h)*3)
	for by := 0; by < int(h); by++ {
		for bx := 0; bx < int(w); bx++ {
			px := downsampleBlock(videoRaster, videoWidth, bx, by)
			out = append(out, px[0], px[1], px[2])
		}
	}
	return out
}

// ReconstructFile iterates the frame store's extracted frames in
// order, downsamples and decodes each, locates the header by scanning
// past all-zero guard frames, Hamming-decodes the remainder, validates
// and truncates to the recorded length, and returns the recovered
// bytes plus the non-fatal correction and integrity reports.
func (a *Assembler) ReconstructFile() ([]byte, vortexerr.CorrectionReport, vortexerr.IntegrityReport, error) {
	var correction vortexerr.CorrectionReport
	var integrity vortexerr.IntegrityReport

	ids, err := a.Store.EnumerateExtracted()
	if err != nil {
		return nil, correction, integrity, errors.Wrap(err, "enumerating extracted frames")
	}

	var readStream []byte
	var h header.Header
	foundHeader := false
	guardFramesSeen := 0

	for _, id := range ids {
		videoRaster, err := a.Store.LoadRaster(id)
		if err != nil {
			return nil, correction, integrity, errors.Wrapf(err, "loading frame %s", id)
		}
		dataRaster := a.downsampleFrame(videoRaster)
		decoded, err := pixelcodec.DecodeFrame(a.Params, dataRaster)
		if err != nil {
			return nil, correction, integrity, errors.Wrapf(err, "decoding frame %s", id)
		}

		if foundHeader {
			readStream = append(readStream, decoded...)
			continue
		}

		if len(decoded) < params.HeaderTriplicatedLen {
			return nil, correction, integrity, vortexerr.NewFraming(
				"scanning for header", errors.Errorf("frame %s is smaller than the triplicated header", id),
			)
		}

		prefix := decoded[:params.HeaderTriplicatedLen]
		if header.IsAllZero(prefix) {
			guardFramesSeen++
			if guardFramesSeen > params.PreBuffer {
				// More all-zero frames than PreBuffer ever writes: either
				// the stream really does have extra guard frames, or this
				// is a legitimate data frame whose first 144 bytes happen
				// to be zero, misread as a guard frame. The two cases are
				// indistinguishable from here.
				a.Log.Warning("skipping frame with all-zero header-length prefix beyond expected pre-buffer count", "frame", id, "count", guardFramesSeen)
			} else {
				a.Log.Debug("skipping guard frame", "frame", id)
			}
			continue
		}

		h, err = header.Recover(prefix)
		if err != nil {
			return nil, correction, integrity, vortexerr.NewFraming("recovering header", err)
		}
		foundHeader = true
		readStream = append(readStream, decoded[params.HeaderTriplicatedLen:]...)
	}

	if !foundHeader {
		return nil, correction, integrity, vortexerr.Framingf("no header frame found: magic missing or all frames were blank")
	}

	a.Log.Debug("read from frame store", "bytes", len(readStream))

	paddedStream := hamming.PadToCodeWordGroup(readStream)
	recovered, hammingReport, err := hamming.Decode(paddedStream)
	if err != nil {
		return nil, correction, integrity, errors.Wrap(err, "hamming-decoding payload")
	}
	correction.CorrectedErrors = hammingReport.CorrectedErrors
	correction.UncorrectedErrors = hammingReport.UncorrectedErrors

	if h.Magic != header.Magic {
		return nil, correction, integrity, vortexerr.Framingf(
			"unable to find correct magic: got %s, want %s", vortexhex.String(h.Magic[:]), vortexhex.String(header.Magic[:]),
		)
	}
	if h.Length == 0 {
		return nil, correction, integrity, vortexerr.Framingf("header length is zero")
	}
	if h.Length > uint64(len(recovered)) {
		return nil, correction, integrity, vortexerr.Framingf(
			"header length (%d) exceeds recovered byte count (%d)", h.Length, len(recovered),
		)
	}

	recovered = recovered[:h.Length]

	integrity.Computed = sha256.Sum256(recovered)
	integrity.Expected = h.Hash
	integrity.HashMatch = integrity.Computed == integrity.Expected
	if !integrity.HashMatch {
		a.Log.Warning("reconstructed file hash does not match expected hash",
			"computed", vortexhex.String(integrity.Computed[:]),
			"expected", vortexhex.String(integrity.Expected[:]),
		)
	}

	a.Log.Info("reconstruct complete", "bytes", len(recovered),
		"corrected", correction.CorrectedErrors, "uncorrected", correction.UncorrectedErrors)
	return recovered, correction, integrity, nil
}

// DeconstructFilePath reads path and deconstructs its contents into
// the frame store.
func (a *Assembler) DeconstructFilePath(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return vortexerr.NewIO(fmt.Sprintf("reading source file %s", path), err)
	}
	return a.DeconstructFile(data)
}

// ReconstructFilePath reconstructs the payload from the frame store and
// writes it to path. If path exists and overwrite is false, it aborts
// without reading any frames.
func (a *Assembler) ReconstructFilePath(path string, overwrite bool) (vortexerr.CorrectionReport, vortexerr.IntegrityReport, error) {
	var correction vortexerr.CorrectionReport
	var integrity vortexerr.IntegrityReport

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return correction, integrity, vortexerr.NewIO(
				"checking output path", errors.Errorf("%s exists and overwrite is not enabled", path),
			)
		}
	}

	recovered, correction, integrity, err := a.ReconstructFile()
	if err != nil {
		return correction, integrity, err
	}

	if err := os.WriteFile(path, recovered, 0o644); err != nil {
		return correction, integrity, vortexerr.NewIO(fmt.Sprintf("writing output file %s", path), err)
	}
	return correction, integrity, nil
}
