/*
NAME
  main.go

DESCRIPTION
  vortex is the command-line front end for the core codec: it encodes
  arbitrary files into a sequence of PNG frames and, optionally, a
  lossy-compressed video carrying them, and inverts the process to
  recover the original bytes. File I/O, external process invocation,
  scratch-directory management and progress logging all live here,
  thin glue over the pure core packages, per spec.md section 1.
*/

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/vortexcodec/vortex/internal/assembler"
	"github.com/vortexcodec/vortex/internal/framestore"
	"github.com/vortexcodec/vortex/internal/params"
	"github.com/vortexcodec/vortex/internal/videoproc"
	"github.com/vortexcodec/vortex/internal/vortexerr"
	"github.com/vortexcodec/vortex/internal/vortextime"
)

// mode names, as given on the -m flag.
const (
	modeDataToVideo = "dtv"
	modeVideoToData = "vtd"
	modeSplit       = "split"
)

// Logging related constants, matching cmd/speaker's lumberjack setup
// in the teacher repository.
const (
	logFileName  = "vortex.log"
	logMaxSizeMB = 50
	logMaxBackup = 5
	logMaxAgeDay = 28
	logVerbosity = logging.Info
	logSuppress  = true
)

// scratchDirName is the fixed subdirectory name created under the
// system temp directory to hold frames between operations.
const scratchDirName = "vortex-framebuffer"

// ffmpegExecutable is the external video codec binary vortex invokes.
const ffmpegExecutable = "ffmpeg"

func main() {
	start := time.Now()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vortex:", err)
		os.Exit(1)
	}
	fmt.Printf("Total execution time: %s\n", vortextime.Format(time.Since(start)))
}

type cliArgs struct {
	outputPath string
	inputPath  string
	overwrite  bool
	mode       string
	colorBits  uint
	videoFPS   uint
	dataFPS    uint
	resolution string
	pixelSize  uint
}

func parseArgs(argv []string) (*cliArgs, error) {
	fs := pflag.NewFlagSet("vortex", pflag.ContinueOnError)

	a := &cliArgs{}
	fs.StringVarP(&a.inputPath, "input", "i", "", "Input file (video file or data to convert).")
	fs.BoolVarP(&a.overwrite, "overwrite", "y", false, "Overwrite output file if it exists.")
	fs.StringVarP(&a.mode, "mode", "m", modeDataToVideo, "Operating mode: dtv (Data to Video), vtd (Video to Data) or split (Data to Frames).")
	fs.UintVarP(&a.colorBits, "colorbits", "c", 121, "Number of bits encoded in each color channel (RGB), as a single integer e.g. 121.")
	fs.UintVar(&a.videoFPS, "video-fps", 30, "Output video framerate.")
	fs.UintVar(&a.dataFPS, "data-fps", 1, "Data framerate.")
	fs.StringVarP(&a.resolution, "frame-resolution", "f", "1080p", "Output video resolution.")
	fs.UintVarP(&a.pixelSize, "data-pixel-size", "d", 10, "Size of a data block in pixels.")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}

	if a.inputPath == "" {
		return nil, errors.New("-i/--input is required")
	}
	if fs.NArg() != 1 {
		return nil, errors.Errorf("expected exactly one positional output_path argument, got %d", fs.NArg())
	}
	a.outputPath = fs.Arg(0)

	return a, nil
}

func (a *cliArgs) toParameters() (*params.Parameters, error) {
	if a.colorBits < 111 || a.colorBits > 888 {
		return nil, vortexerr.Configf("colorbits (%d) must be a three-digit RGB bit spec in [111, 888]", a.colorBits)
	}
	colorBits := [3]uint{
		a.colorBits / 100,
		(a.colorBits % 100) / 10,
		a.colorBits % 10,
	}

	res, ok := params.Resolutions[a.resolution]
	if !ok {
		return nil, vortexerr.Configf("unknown frame resolution %q", a.resolution)
	}
	if a.pixelSize < 1 || a.pixelSize > 100 {
		return nil, vortexerr.Configf("data-pixel-size (%d) must be in [1, 100]", a.pixelSize)
	}

	dataDims := [2]uint{res.Width / a.pixelSize, res.Height / a.pixelSize}
	frameDims := [2]uint{res.Width, res.Height}

	return params.New(colorBits, a.dataFPS, a.videoFPS, frameDims, dataDims)
}

func run() error {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	fileLog := &lumberjack.Logger{
		Filename:   logFileName,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAgeDay,
	}
	l := logging.New(logVerbosity, io.MultiWriter(os.Stderr, fileLog), logSuppress)

	p, err := args.toParameters()
	if err != nil {
		return err
	}

	if _, err := os.Stat(args.inputPath); err != nil {
		return errors.Wrapf(err, "input file %s could not be found", args.inputPath)
	}

	scratchDir := filepath.Join(os.TempDir(), scratchDirName)
	store := framestore.NewDirStore(scratchDir, p)
	asm := assembler.New(p, store, l)
	enc := videoproc.NewEncoder(ffmpegExecutable)

	switch args.mode {
	case modeSplit:
		return timed("frame generation", l, func() error {
			return asm.DeconstructFilePath(args.inputPath)
		})

	case modeDataToVideo:
		if err := timed("frame generation", l, func() error {
			return asm.DeconstructFilePath(args.inputPath)
		}); err != nil {
			return err
		}
		return timed("frame combination", l, func() error {
			if !args.overwrite {
				if _, err := os.Stat(args.outputPath); err == nil {
					return vortexerr.NewIO("checking output path", errors.Errorf("%s exists and overwrite is not enabled", args.outputPath))
				}
			}
			return enc.Combine(p, store.CombineGlob(), args.outputPath)
		})

	case modeVideoToData:
		if err := timed("video splitting", l, func() error {
			if err := store.Clear(); err != nil {
				return err
			}
			return enc.Split(p, args.inputPath, filepath.Join(scratchDir, "split%09d.png"))
		}); err != nil {
			return err
		}
		l.Info("starting file reconstruction")
		var correction vortexerr.CorrectionReport
		var integrity vortexerr.IntegrityReport
		if err := timed("file reconstruction", l, func() error {
			var err error
			correction, integrity, err = asm.ReconstructFilePath(args.outputPath, args.overwrite)
			return err
		}); err != nil {
			return err
		}
		fmt.Printf("Errors during file reconstruction: Corrected: %d  Uncorrectable: %d\n",
			correction.CorrectedErrors, correction.UncorrectedErrors)
		if !integrity.HashMatch {
			fmt.Println("warning: reconstructed file hash does not match the hash recorded in the stream header")
		}
		return nil

	default:
		return errors.Errorf("unknown mode %q: must be one of dtv, vtd, split", args.mode)
	}
}

// timed runs fn, logging its start and elapsed duration at Info level,
// matching main.rs's timed_block! macro.
func timed(name string, l logging.Logger, fn func() error) error {
	l.Info("starting " + name)
	start := time.Now()
	err := fn()
	l.Info("finished "+name, "elapsed", vortextime.Format(time.Since(start)))
	return err
}
