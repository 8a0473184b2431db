/*
NAME
  videoproc.go

DESCRIPTION
  videoproc wraps the external video encoder/decoder invocation named
  in spec.md section 6: combining combine*.png frames into a
  chroma-subsampled, block-transformed video at moderate quality, and
  the inverse, splitting a video back into split*.png frames at
  data-space-times-downsample-scaler resolution. Neither direction
  parses or produces a video bitstream itself; that is delegated
  entirely to the external process, mirroring the way cmd/speaker and
  device/raspivid in the teacher repository shell out rather than
  reimplement a media pipeline in process.
*/

// Package videoproc invokes the external video encoder/decoder binary
// that sits between the frame store and a playable video file.
package videoproc

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/vortexcodec/vortex/internal/params"
	"github.com/vortexcodec/vortex/internal/vortexerr"
)

// Encoding parameters fixed by spec.md section 6.
const (
	h264Preset   = "medium"
	h264CRF      = 20
	colorspace   = "bt709"
	colorRange   = "tv"
	chromaFormat = "yuv420p"
	scaleFlags   = "neighbor"
)

// Runner abstracts the external encoder/decoder process so tests can
// substitute a no-op "video encoder" that simply leaves frames alone,
// per spec.md's test-harness guidance in section 9.
type Runner interface {
	// Run executes name with args, returning combined stdout/stderr on
	// failure for diagnostics.
	Run(name string, args ...string) error
}

// ExecRunner runs the external process for real, using os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return vortexerr.NewExternalProcess(
			fmt.Sprintf("running %s: output:\n%s", name, out.String()), err,
		)
	}
	return nil
}

// Encoder drives the external video encoder and decoder.
type Encoder struct {
	// Executable is the path to the external video codec binary.
	Executable string

	// Runner executes the built command line. Defaults to ExecRunner{}
	// when constructed via NewEncoder.
	Runner Runner
}

// NewEncoder returns an Encoder that shells out to executable using the
// real OS process runner.
func NewEncoder(executable string) *Encoder {
	return &Encoder{Executable: executable, Runner: ExecRunner{}}
}

// Combine invokes the external encoder to assemble combineGlob (a glob
// pattern over frames written at data_fps) into a video at outputPath,
// upscaled with nearest-neighbor to p's frame dimensions, converted to
// 4:2:0 chroma, and encoded H.264 high profile, CRF 20, bt709, tv range,
// at p's video frame rate.
func (e *Encoder) Combine(p *params.Parameters, combineGlob, outputPath string) error {
	width, height := p.FrameDims()
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-framerate", fmt.Sprintf("%d", p.DataFPS()),
		"-pattern_type", "glob",
		"-i", combineGlob,
		"-vf", fmt.Sprintf("scale=%d:%d:flags=%s,format=%s", width, height, scaleFlags, chromaFormat),
		"-c:v", "libx264",
		"-preset", h264Preset,
		"-crf", fmt.Sprintf("%d", h264CRF),
		"-profile:v", "high",
		"-colorspace:v", colorspace,
		"-color_primaries:v", colorspace,
		"-color_trc:v", colorspace,
		"-color_range:v", colorRange,
		"-r", fmt.Sprintf("%d", p.VideoFPS()),
		"-y",
		outputPath,
	}
	return e.Runner.Run(e.Executable, args...)
}

// Split invokes the external decoder to extract inputPath's frames into
// files named by splitPattern (e.g. splitNNNNNNNNN.png via a %09d
// pattern), nearest-neighbor downscaled to
// DownsampleScaler*DataDims() and resampled to p's data frame rate.
func (e *Encoder) Split(p *params.Parameters, inputPath, splitPattern string) error {
	w, h := p.DataDims()
	scaledW := int(w) * params.DownsampleScaler
	scaledH := int(h) * params.DownsampleScaler
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=%d:%d:flags=%s", scaledW, scaledH, scaleFlags),
		"-r", fmt.Sprintf("%d", p.DataFPS()),
		splitPattern,
	}
	return e.Runner.Run(e.Executable, args...)
}
