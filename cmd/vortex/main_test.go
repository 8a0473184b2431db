/*
NAME
  main_test.go

DESCRIPTION
  main_test.go tests CLI flag parsing and the flag-to-Parameters
  translation named in spec.md section 6, independent of any
  filesystem or external-process interaction.
*/

package main

import "testing"

func TestParseArgsDefaults(t *testing.T) {
	a, err := parseArgs([]string{"-i", "input.bin", "out.mp4"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if a.inputPath != "input.bin" {
		t.Errorf("inputPath = %q, want input.bin", a.inputPath)
	}
	if a.outputPath != "out.mp4" {
		t.Errorf("outputPath = %q, want out.mp4", a.outputPath)
	}
	if a.mode != modeDataToVideo {
		t.Errorf("mode = %q, want %q", a.mode, modeDataToVideo)
	}
	if a.colorBits != 121 {
		t.Errorf("colorBits = %d, want 121", a.colorBits)
	}
	if a.videoFPS != 30 || a.dataFPS != 1 {
		t.Errorf("fps = (%d, %d), want (30, 1)", a.videoFPS, a.dataFPS)
	}
	if a.resolution != "1080p" {
		t.Errorf("resolution = %q, want 1080p", a.resolution)
	}
	if a.pixelSize != 10 {
		t.Errorf("pixelSize = %d, want 10", a.pixelSize)
	}
	if a.overwrite {
		t.Error("overwrite should default to false")
	}
}

func TestParseArgsLongFlags(t *testing.T) {
	a, err := parseArgs([]string{
		"--input", "in.mp4",
		"--overwrite",
		"--mode", "vtd",
		"--colorbits", "888",
		"--video-fps", "24",
		"--data-fps", "2",
		"--frame-resolution", "720p",
		"--data-pixel-size", "5",
		"recovered.bin",
	})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if a.mode != modeVideoToData || a.colorBits != 888 || a.videoFPS != 24 || a.dataFPS != 2 {
		t.Errorf("unexpected parsed args: %+v", a)
	}
	if !a.overwrite {
		t.Error("overwrite should be true")
	}
	if a.outputPath != "recovered.bin" {
		t.Errorf("outputPath = %q, want recovered.bin", a.outputPath)
	}
}

func TestParseArgsRequiresInput(t *testing.T) {
	if _, err := parseArgs([]string{"out.mp4"}); err == nil {
		t.Fatal("expected error when -i/--input is missing")
	}
}

func TestParseArgsRequiresExactlyOnePositional(t *testing.T) {
	if _, err := parseArgs([]string{"-i", "in.bin"}); err == nil {
		t.Fatal("expected error for missing output_path")
	}
	if _, err := parseArgs([]string{"-i", "in.bin", "out1", "out2"}); err == nil {
		t.Fatal("expected error for too many positional arguments")
	}
}

func TestToParametersValid(t *testing.T) {
	a := &cliArgs{
		mode: modeDataToVideo, colorBits: 121, videoFPS: 30, dataFPS: 1,
		resolution: "1080p", pixelSize: 10,
	}
	p, err := a.toParameters()
	if err != nil {
		t.Fatalf("toParameters: %v", err)
	}
	if bits := p.BitsPerChannel(); bits != [3]uint{1, 2, 1} {
		t.Errorf("BitsPerChannel() = %v, want [1 2 1]", bits)
	}
	w, h := p.DataDims()
	if w != 192 || h != 108 {
		t.Errorf("DataDims() = (%d, %d), want (192, 108)", w, h)
	}
}

func TestToParametersRejectsBadColorBits(t *testing.T) {
	for _, cb := range []uint{110, 889, 0} {
		a := &cliArgs{colorBits: cb, resolution: "1080p", pixelSize: 10, videoFPS: 30, dataFPS: 1}
		if _, err := a.toParameters(); err == nil {
			t.Errorf("colorbits %d: expected error", cb)
		}
	}
}

func TestToParametersRejectsUnknownResolution(t *testing.T) {
	a := &cliArgs{colorBits: 121, resolution: "nonexistent", pixelSize: 10, videoFPS: 30, dataFPS: 1}
	if _, err := a.toParameters(); err == nil {
		t.Fatal("expected error for unknown resolution")
	}
}

func TestToParametersRejectsBadPixelSize(t *testing.T) {
	for _, ps := range []uint{0, 101} {
		a := &cliArgs{colorBits: 121, resolution: "1080p", pixelSize: ps, videoFPS: 30, dataFPS: 1}
		if _, err := a.toParameters(); err == nil {
			t.Errorf("pixelSize %d: expected error", ps)
		}
	}
}
