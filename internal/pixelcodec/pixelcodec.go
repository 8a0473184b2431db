/*
NAME
  pixelcodec.go

DESCRIPTION
  pixelcodec maps a fixed-size byte slice to and from a raster of RGB
  samples, for a given set of Parameters. Bits are packed MSB-first
  into a left-shifted accumulator and split across the red, green and
  blue channels of each data unit; each channel field is anchored to
  the midpoint of its high-value quantization bin to maximize the
  noise margin a lossy codec leaves it.
*/

// Package pixelcodec implements the byte-slice <-> RGB-raster mapping
// at the heart of the vortex codec.
package pixelcodec

import (
	"github.com/vortexcodec/vortex/internal/params"
	"github.com/vortexcodec/vortex/internal/vortexerr"
)

// colorChannels is the number of channels per data unit (R, G, B).
const colorChannels = 3

// EncodeFrame packs data, which must be exactly p.BytesPerFrame() bytes
// long, into a raster of p.UnitsPerFrame()*3 RGB channel samples
// (row-major, R/G/B interleaved per unit).
func EncodeFrame(p *params.Parameters, data []byte) ([]byte, error) {
	want := int(p.BytesPerFrame())
	if len(data) != want {
		return nil, vortexerr.Framingf("pixelcodec: input length (%d) does not match bytes per frame (%d)", len(data), want)
	}

	bits := p.BitsPerChannel()
	masks := p.ChannelMask()
	totalBits := p.TotalBits()
	totalMask := p.TotalMask()

	raster := make([]byte, 0, int(p.UnitsPerFrame())*colorChannels)
	var bitBuffer uint32
	var bitCount uint

	for _, dataByte := range data {
		bitBuffer = (bitBuffer << 8) | uint32(dataByte)
		bitCount += 8

		for bitCount >= totalBits {
			unit := (bitBuffer >> (bitCount - totalBits)) & totalMask
			bitCount -= totalBits

			red := byte((unit>>(bits[1]+bits[2]))&masks[0]) << (8 - bits[0])
			if bits[0] < 8 {
				red |= 1 << (7 - bits[0])
			}

			green := byte((unit>>bits[2])&masks[1]) << (8 - bits[1])
			if bits[1] < 8 {
				green |= 1 << (7 - bits[1])
			}

			blue := byte(unit&masks[2]) << (8 - bits[2])
			if bits[2] < 8 {
				blue |= 1 << (7 - bits[2])
			}

			raster = append(raster, red, green, blue)
		}
	}

	wantUnits := int(p.UnitsPerFrame()) * colorChannels
	if len(raster) != wantUnits {
		return nil, vortexerr.Framingf("pixelcodec: produced %d channel samples, expected %d", len(raster), wantUnits)
	}
	return raster, nil
}

// DecodeFrame unpacks a raster of p.UnitsPerFrame()*3 RGB channel
// samples back into p.BytesPerFrame() bytes.
func DecodeFrame(p *params.Parameters, raster []byte) ([]byte, error) {
	wantUnits := int(p.UnitsPerFrame()) * colorChannels
	if len(raster) != wantUnits {
		return nil, vortexerr.Framingf("pixelcodec: raster length (%d) does not match expected (%d)", len(raster), wantUnits)
	}

	bits := p.BitsPerChannel()
	totalBits := p.TotalBits()

	want := int(p.BytesPerFrame())
	data := make([]byte, 0, want)
	var bitBuffer uint32
	var bitCount uint

	for i := 0; i+colorChannels <= len(raster); i += colorChannels {
		red := uint32(raster[i] >> (8 - bits[0]))
		green := uint32(raster[i+1] >> (8 - bits[1]))
		blue := uint32(raster[i+2] >> (8 - bits[2]))
		unit := blue | (green << bits[2]) | (red << (bits[2] + bits[1]))

		bitBuffer = (bitBuffer << totalBits) | unit
		bitCount += totalBits

		for bitCount >= 8 {
			b := byte(bitBuffer >> (bitCount - 8))
			data = append(data, b)
			bitCount -= 8
		}
	}

	if len(data) != want {
		return nil, vortexerr.Framingf("pixelcodec: decoded %d bytes, expected %d", len(data), want)
	}
	return data, nil
}
