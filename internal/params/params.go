/*
NAME
  params.go

DESCRIPTION
  params defines the immutable, validated configuration that every
  other vortex package operates against: bit depths per color channel,
  frame and data dimensions, and the data/video frame rate pair. All
  derived quantities are computed once at construction and never
  change afterward.
*/

// Package params holds the validated, immutable configuration shared by
// the vortex codec packages.
package params

import (
	"github.com/vortexcodec/vortex/internal/vortexerr"
)

// DownsampleScaler is the fixed ratio between video-space and
// data-space pixel dimensions: each data unit occupies a
// DownsampleScaler x DownsampleScaler block of video pixels.
const DownsampleScaler = 2

// HeaderLen is the length in bytes of a single (non-triplicated) header.
const HeaderLen = 48

// HeaderTriplicatedLen is the length in bytes of the header as written
// to the stream: three verbatim copies for majority-vote recovery.
const HeaderTriplicatedLen = HeaderLen * 3

// PreBuffer and PostBuffer are the number of blank guard frames written
// before and after the data frame sequence.
const (
	PreBuffer  = 3
	PostBuffer = 3
)

// MinFPS and MaxFPS bound both data_fps and video_fps.
const (
	MinFPS = 1
	MaxFPS = 60
)

// colorChannels is the number of color channels packed per data unit.
const colorChannels = 3

// Parameters is an immutable, validated configuration for a single
// encode or decode operation. Construct with New; there is no zero
// value that is safe to use.
type Parameters struct {
	bitsPerChannel [colorChannels]uint
	channelMask    [colorChannels]uint32

	totalBits uint
	totalMask uint32

	frameWidth, frameHeight uint
	dataWidth, dataHeight   uint

	dataFPS, videoFPS uint

	unitsPerFrame uint
	bytesPerFrame uint
}

// New validates the supplied configuration and, if valid, returns an
// immutable Parameters with all derived quantities precomputed.
// Construction is total: on any invalid combination it returns a
// *vortexerr.ConfigError and no partial Parameters value exists.
//
// colorBits gives the number of bits packed per data unit into each of
// the red, green and blue channels, in that order; each must be in
// [1, 8]. frameDims is the output video resolution in pixels; dataDims
// is the number of data units per frame. dataFPS and videoFPS must both
// lie in [MinFPS, MaxFPS], with dataFPS <= videoFPS and videoFPS a
// whole multiple of dataFPS.
func New(colorBits [colorChannels]uint, dataFPS, videoFPS uint, frameDims, dataDims [2]uint) (*Parameters, error) {
	for i, b := range colorBits {
		if b < 1 || b > 8 {
			return nil, vortexerr.Configf("color channel %d bit count (%d) must be in [1, 8]", i, b)
		}
	}

	if dataFPS < MinFPS || dataFPS > videoFPS {
		return nil, vortexerr.Configf("data fps (%d) must be between %d and video fps (%d)", dataFPS, MinFPS, videoFPS)
	}
	if videoFPS > MaxFPS {
		return nil, vortexerr.Configf("video fps (%d) must not exceed %d", videoFPS, MaxFPS)
	}
	if videoFPS%dataFPS != 0 {
		return nil, vortexerr.Configf("video fps (%d) is not a whole multiple of data fps (%d)", videoFPS, dataFPS)
	}

	frameWidth, frameHeight := frameDims[0], frameDims[1]
	dataWidth, dataHeight := dataDims[0], dataDims[1]

	if dataWidth == 0 || dataHeight == 0 {
		return nil, vortexerr.Configf("data dimensions (%dx%d) must be nonzero", dataWidth, dataHeight)
	}
	if frameWidth%dataWidth != 0 {
		return nil, vortexerr.Configf("frame width (%d) is not a whole multiple of data width (%d)", frameWidth, dataWidth)
	}
	if frameHeight%dataHeight != 0 {
		return nil, vortexerr.Configf("frame height (%d) is not a whole multiple of data height (%d)", frameHeight, dataHeight)
	}
	if frameWidth < DownsampleScaler*dataWidth {
		return nil, vortexerr.Configf("frame width (%d) must be at least data width (%d) times the downsample scaler (%d)", frameWidth, dataWidth, DownsampleScaler)
	}
	if frameHeight < DownsampleScaler*dataHeight {
		return nil, vortexerr.Configf("frame height (%d) must be at least data height (%d) times the downsample scaler (%d)", frameHeight, dataHeight, DownsampleScaler)
	}

	var totalBits uint
	var channelMask [colorChannels]uint32
	for i, b := range colorBits {
		channelMask[i] = uint32(1<<b) - 1
		totalBits += b
	}

	unitsPerFrame := dataWidth * dataHeight
	frameBitCount := totalBits * unitsPerFrame
	if frameBitCount%8 != 0 {
		return nil, vortexerr.Configf("frame must encode a whole number of bytes, got %d bits per frame", frameBitCount)
	}
	bytesPerFrame := frameBitCount / 8

	if bytesPerFrame < HeaderTriplicatedLen {
		return nil, vortexerr.Configf(
			"frame byte capacity (%d) is smaller than the triplicated header (%d); the header would not fit in a single frame",
			bytesPerFrame, HeaderTriplicatedLen,
		)
	}

	return &Parameters{
		bitsPerChannel: colorBits,
		channelMask:    channelMask,
		totalBits:      totalBits,
		totalMask:      uint32(1<<totalBits) - 1,
		frameWidth:     frameWidth,
		frameHeight:    frameHeight,
		dataWidth:      dataWidth,
		dataHeight:     dataHeight,
		dataFPS:        dataFPS,
		videoFPS:       videoFPS,
		unitsPerFrame:  unitsPerFrame,
		bytesPerFrame:  bytesPerFrame,
	}, nil
}

// BitsPerChannel returns the (R, G, B) bit depths.
func (p *Parameters) BitsPerChannel() [3]uint { return p.bitsPerChannel }

// ChannelMask returns the (R, G, B) masks: (1<<bits)-1 per channel.
func (p *Parameters) ChannelMask() [3]uint32 { return p.channelMask }

// TotalBits returns the sum of the per-channel bit depths.
func (p *Parameters) TotalBits() uint { return p.totalBits }

// TotalMask returns (1<<TotalBits())-1.
func (p *Parameters) TotalMask() uint32 { return p.totalMask }

// FrameDims returns the output video-space (width, height) in pixels.
func (p *Parameters) FrameDims() (width, height uint) { return p.frameWidth, p.frameHeight }

// DataDims returns the data-space (width, height) in data units.
func (p *Parameters) DataDims() (width, height uint) { return p.dataWidth, p.dataHeight }

// DataFPS returns the rate at which data frames are encoded.
func (p *Parameters) DataFPS() uint { return p.dataFPS }

// VideoFPS returns the output video frame rate.
func (p *Parameters) VideoFPS() uint { return p.videoFPS }

// UnitsPerFrame returns the number of data units (pixel samples) in one
// data-space frame: DataWidth * DataHeight.
func (p *Parameters) UnitsPerFrame() uint { return p.unitsPerFrame }

// BytesPerFrame returns the number of payload bytes carried by one
// data frame. It is invariant across the whole stream; the final frame
// of a stream is zero-padded to reach it.
func (p *Parameters) BytesPerFrame() uint { return p.bytesPerFrame }

// Resolution is a named output-video resolution, width then height in
// pixels.
type Resolution struct {
	Width, Height uint
}

// Resolutions is the closed mapping from a resolution name to its
// (width, height) in pixels, per spec.md's resolution table. Unknown
// names must be rejected by callers at parse time; this table performs
// no fallback.
var Resolutions = map[string]Resolution{
	"240p":  {426, 240},
	"360p":  {640, 360},
	"480p":  {854, 480},
	"720p":  {1280, 720},
	"1080p": {1920, 1080},
	"1440p": {2560, 1440},
	"4k":    {3840, 2160},
	"8k":    {7680, 4320},
}
