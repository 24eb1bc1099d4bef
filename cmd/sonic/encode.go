package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/urfave/cli/v3"

	"github.com/mewkiz/sonic"
)

// streamMagic identifies a file produced by this tool: the codec itself
// has no container, so the CLI wraps its packets in a minimal one (§9:
// framing is left to the caller).
var streamMagic = [4]byte{'s', 'o', 'n', '1'}

func encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "compress a WAV file to a .sonic stream",
		ArgsUsage: "<input.wav> <output.sonic>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "lossless",
				Value: true,
				Usage: "use the lossless preset (32-tap predictor, no downsampling)",
			},
			&cli.StringFlag{
				Name:  "decorrelation",
				Value: "",
				Usage: "override channel decorrelation: mid_side, left_side, right_side, none",
			},
		},
		Action: runEncode,
	}
}

func runEncode(ctx context.Context, cmd *cli.Command) error {
	log := loggerFrom(ctx)
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("%w: expected <input.wav> <output.sonic>", errInvalidArgCount)
	}
	inPath, outPath := cmd.Args().Get(0), cmd.Args().Get(1)

	inFile, err := os.Open(inPath) //nolint:gosec // CLI tool opens a user-specified path.
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer inFile.Close()

	dec := wav.NewDecoder(inFile)
	if !dec.IsValidFile() {
		return fmt.Errorf("%s: not a valid WAV file", inPath)
	}
	if err := dec.FwdToPCM(); err != nil {
		return fmt.Errorf("seeking to PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	sampleRate := dec.SampleRate

	var cfg sonic.Config
	if cmd.Bool("lossless") {
		cfg = sonic.PresetLossless(channels, sampleRate)
	} else {
		cfg = sonic.PresetLossy(channels, sampleRate)
	}
	if mode := cmd.String("decorrelation"); mode != "" {
		d, err := parseDecorrelation(mode)
		if err != nil {
			return err
		}
		cfg.Decorrelation = d
	}

	log.Info().
		Int("channels", channels).
		Uint32("sample_rate", sampleRate).
		Bool("lossless", cfg.Lossless).
		Int("num_taps", cfg.NumTaps).
		Msg("encoding")

	enc, err := sonic.NewEncoder(cfg)
	if err != nil {
		return fmt.Errorf("creating encoder: %w", err)
	}

	outFile, err := os.Create(outPath) //nolint:gosec // CLI tool creates a user-specified path.
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer outFile.Close()
	w := bufio.NewWriter(outFile)

	if _, err := w.Write(streamMagic[:]); err != nil {
		return fmt.Errorf("writing stream magic: %w", err)
	}
	header, err := sonic.EncodeHeader(cfg)
	if err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: int(sampleRate)},
		Data:           make([]int, cfg.FrameSize()),
		SourceBitDepth: 16,
	}
	frame := make([]int16, cfg.FrameSize())

	frameCount := 0
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return fmt.Errorf("reading PCM samples: %w", err)
		}
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			frame[i] = int16(buf.Data[i])
		}
		for i := n; i < len(frame); i++ {
			frame[i] = 0
		}

		packet, err := enc.EncodeFrame(frame)
		if err != nil {
			return fmt.Errorf("encoding frame %d: %w", frameCount, err)
		}
		if err := writePacket(w, packet); err != nil {
			return fmt.Errorf("writing frame %d: %w", frameCount, err)
		}
		frameCount++

		if n < len(frame) {
			break
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	log.Info().Int("frames", frameCount).Msg("done")
	return nil
}

func writePacket(w *bufio.Writer, packet []byte) error {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(packet)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err := w.Write(packet)
	return err
}

func parseDecorrelation(mode string) (sonic.Decorrelation, error) {
	switch mode {
	case "mid_side":
		return sonic.MidSide, nil
	case "left_side":
		return sonic.LeftSide, nil
	case "right_side":
		return sonic.RightSide, nil
	case "none":
		return sonic.NoDecorrelation, nil
	default:
		return 0, fmt.Errorf("unknown decorrelation mode %q", mode)
	}
}
