/*
NAME
  params_test.go

DESCRIPTION
  params_test.go tests Parameters construction: the valid-configuration
  derived-quantity arithmetic and every rejection path named in
  spec.md section 3.
*/

package params

import "testing"

func validConfig() ([3]uint, uint, uint, [2]uint, [2]uint) {
	return [3]uint{8, 8, 8}, 1, 2, [2]uint{16, 16}, [2]uint{8, 8}
}

func TestNewValidConfiguration(t *testing.T) {
	colorBits, dataFPS, videoFPS, frameDims, dataDims := validConfig()
	p, err := New(colorBits, dataFPS, videoFPS, frameDims, dataDims)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.TotalBits(); got != 24 {
		t.Errorf("TotalBits() = %d, want 24", got)
	}
	if got := p.UnitsPerFrame(); got != 64 {
		t.Errorf("UnitsPerFrame() = %d, want 64", got)
	}
	if got := p.BytesPerFrame(); got != 192 {
		t.Errorf("BytesPerFrame() = %d, want 192", got)
	}
	if got := p.TotalMask(); got != (1<<24)-1 {
		t.Errorf("TotalMask() = %#x, want %#x", got, (1<<24)-1)
	}
}

func TestNewRejectsInvalidColorBits(t *testing.T) {
	for _, b := range [][3]uint{{0, 8, 8}, {9, 8, 8}, {8, 0, 8}, {8, 8, 9}} {
		if _, err := New(b, 1, 2, [2]uint{16, 16}, [2]uint{8, 8}); err == nil {
			t.Errorf("colorBits %v: expected error", b)
		}
	}
}

func TestNewRejectsBadFPS(t *testing.T) {
	cases := []struct {
		name     string
		dataFPS  uint
		videoFPS uint
	}{
		{"dataFPS zero", 0, 2},
		{"dataFPS exceeds videoFPS", 10, 5},
		{"videoFPS exceeds max", 1, MaxFPS + 1},
		{"videoFPS not a multiple of dataFPS", 3, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := New([3]uint{8, 8, 8}, c.dataFPS, c.videoFPS, [2]uint{16, 16}, [2]uint{8, 8}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	cases := []struct {
		name      string
		frameDims [2]uint
		dataDims  [2]uint
	}{
		{"zero data width", [2]uint{16, 16}, [2]uint{0, 8}},
		{"zero data height", [2]uint{16, 16}, [2]uint{8, 0}},
		{"frame width not a multiple", [2]uint{17, 16}, [2]uint{8, 8}},
		{"frame height not a multiple", [2]uint{16, 17}, [2]uint{8, 8}},
		{"frame smaller than downsample scaler times data dims", [2]uint{8, 8}, [2]uint{8, 8}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := New([3]uint{8, 8, 8}, 1, 2, c.frameDims, c.dataDims); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewRejectsNonByteAlignedFrame(t *testing.T) {
	// 3 bits per unit * 3 units (1x3 data grid) = 9 bits, not a whole
	// number of bytes.
	if _, err := New([3]uint{1, 1, 1}, 1, 1, [2]uint{6, 2}, [2]uint{3, 1}); err == nil {
		t.Error("expected error for non-byte-aligned frame bit count")
	}
}

func TestNewRejectsFrameTooSmallForHeader(t *testing.T) {
	// 8 bits per channel, 1x1 data grid: 24 bits = 3 bytes per frame,
	// byte aligned but still far too small to hold the 144-byte
	// triplicated header.
	if _, err := New([3]uint{8, 8, 8}, 1, 1, [2]uint{2, 2}, [2]uint{1, 1}); err == nil {
		t.Error("expected error: single data unit cannot hold the triplicated header")
	}
}

func TestResolutionsTable(t *testing.T) {
	want := map[string]Resolution{
		"240p":  {426, 240},
		"360p":  {640, 360},
		"480p":  {854, 480},
		"720p":  {1280, 720},
		"1080p": {1920, 1080},
		"1440p": {2560, 1440},
		"4k":    {3840, 2160},
		"8k":    {7680, 4320},
	}
	if len(Resolutions) != len(want) {
		t.Fatalf("Resolutions has %d entries, want %d", len(Resolutions), len(want))
	}
	for name, res := range want {
		got, ok := Resolutions[name]
		if !ok {
			t.Errorf("missing resolution %q", name)
			continue
		}
		if got != res {
			t.Errorf("Resolutions[%q] = %+v, want %+v", name, got, res)
		}
	}
}
