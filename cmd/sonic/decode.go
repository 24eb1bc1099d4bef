package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/urfave/cli/v3"

	"github.com/mewkiz/sonic"
)

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "decompress a .sonic stream to a WAV file",
		ArgsUsage: "<input.sonic> <output.wav>",
		Action:    runDecode,
	}
}

func runDecode(ctx context.Context, cmd *cli.Command) error {
	log := loggerFrom(ctx)
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("%w: expected <input.sonic> <output.wav>", errInvalidArgCount)
	}
	inPath, outPath := cmd.Args().Get(0), cmd.Args().Get(1)

	inFile, err := os.Open(inPath) //nolint:gosec // CLI tool opens a user-specified path.
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer inFile.Close()
	r := bufio.NewReader(inFile)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("reading stream magic: %w", err)
	}
	if magic != streamMagic {
		return fmt.Errorf("%s: not a sonic stream", inPath)
	}

	header := make([]byte, sonic.HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	cfg, err := sonic.ParseHeader(header)
	if err != nil {
		return fmt.Errorf("parsing header: %w", err)
	}

	log.Info().
		Int("channels", cfg.Channels).
		Uint32("sample_rate", cfg.SampleRate).
		Bool("lossless", cfg.Lossless).
		Int("num_taps", cfg.NumTaps).
		Msg("decoding")

	dec, err := sonic.NewDecoder(cfg)
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	outFile, err := os.Create(outPath) //nolint:gosec // CLI tool creates a user-specified path.
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer outFile.Close()

	enc := wav.NewEncoder(outFile, int(cfg.SampleRate), 16, cfg.Channels, 1)
	defer enc.Close()

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: cfg.Channels, SampleRate: int(cfg.SampleRate)},
		SourceBitDepth: 16,
	}

	frameCount := 0
	for {
		packet, err := readPacket(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading frame %d: %w", frameCount, err)
		}

		samples, err := dec.DecodeFrame(packet)
		if err != nil {
			return fmt.Errorf("decoding frame %d: %w", frameCount, err)
		}

		buf.Data = buf.Data[:0]
		for _, s := range samples {
			buf.Data = append(buf.Data, int(s))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing PCM samples: %w", err)
		}
		frameCount++
	}

	log.Info().Int("frames", frameCount).Msg("done")
	return nil
}

func readPacket(r *bufio.Reader) ([]byte, error) {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(length[:])
	packet := make([]byte, n)
	if _, err := io.ReadFull(r, packet); err != nil {
		return nil, err
	}
	return packet, nil
}
