/*
bubcat decodes a bubble stream against a fixed loudspeaker layout and
writes the mixed result out as a WAV file.

Usage:

	bubcat -in stream.bub -speakers layout.bin -out stream.wav
*/
package main

import (
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/kurotakazuki/floaout-go/bub"
	bio "github.com/kurotakazuki/floaout-go/bub/io"
	"github.com/kurotakazuki/floaout-go/internal/config"
	"github.com/kurotakazuki/floaout-go/space"
	"github.com/kurotakazuki/floaout-go/wavio"
)

func main() {
	cfg, err := config.FromFlags(os.Args[1:])
	if err != nil {
		os.Exit(usageError(err))
	}

	fileLog := &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackup,
		MaxAge:     cfg.LogMaxAge,
	}
	log := logging.New(cfg.LogLevel, fileLog, true)

	if err := run(cfg, log); err != nil {
		log.Fatal("bubcat: decode failed", "error", err.Error())
	}
}

func usageError(err error) int {
	os.Stderr.WriteString(err.Error() + "\n")
	return 2
}

func run(cfg config.Config, log logging.Logger) error {
	in, err := os.Open(cfg.InputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	speakersFile, err := os.Open(cfg.SpeakersPath)
	if err != nil {
		return err
	}
	speakers, err := space.ReadSpeakers(speakersFile)
	speakersFile.Close()
	if err != nil {
		return err
	}
	log.Info("bubcat: loaded speaker layout", "speakers", len(speakers))

	metadata, err := bub.ReadMetadata(in)
	if err != nil {
		return err
	}
	log.Info("bubcat: read stream header",
		"name", metadata.Name,
		"frames", metadata.Frames,
		"samples_per_sec", metadata.SamplesPerSec,
	)

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	wr, err := wavio.NewWriter(out, int(metadata.SamplesPerSec), cfg.BitDepth, len(speakers))
	if err != nil {
		return err
	}

	readerKind, err := bio.NewReaderKind(in, metadata, []space.Coord(speakers))
	if err != nil {
		return err
	}

	switch {
	case readerKind.F32 != nil:
		err = decode(readerKind.F32, wr)
	case readerKind.F64 != nil:
		err = decode(readerKind.F64, wr)
	}
	if err != nil {
		return err
	}

	log.Info("bubcat: decode complete", "frames", metadata.Frames)
	return wr.Close()
}

// decode drains r one frame at a time, widening each sample to
// float64 and handing it to wr, until r reports io.EOF.
func decode[S bub.Sample](r *bio.Reader[S], wr *wavio.Writer) error {
	for {
		frame, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		samples := make([]float64, len(frame))
		for i, s := range frame {
			samples[i] = s.F64()
		}
		if err := wr.WriteFrame(samples); err != nil {
			return err
		}
	}
}
