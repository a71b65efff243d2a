// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package frame

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
)

// Compression selects the stream wrapped around an exported PFM.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// ParseCompression parses a --compress-export value.
func ParseCompression(name string) (Compression, error) {
	switch Compression(name) {
	case CompressionNone, "none":
		return CompressionNone, nil
	case CompressionZstd, CompressionLZ4:
		return Compression(name), nil
	default:
		return "", fmt.Errorf("unknown export compression %q (want none, zstd or lz4)", name)
	}
}

// Extension is the file suffix for an export with this compression.
func (c Compression) Extension() string {
	switch c {
	case CompressionZstd:
		return ".pfm.zst"
	case CompressionLZ4:
		return ".pfm.lz4"
	default:
		return ".pfm"
	}
}

// ExportOptions configures ExportToFile.
type ExportOptions struct {
	Compression Compression
}

// ExportResult describes an export. Ready is false when no frame had
// completed; nothing was written in that case.
type ExportResult struct {
	Ready bool
	Path  string
	Cycle uint64

	// Size is the PFM byte count before compression.
	Size int64

	// Digest is the hex BLAKE3 hash of the uncompressed PFM bytes.
	Digest string
}

// ExportToFile writes the latest completed frame to path as PFM. The
// file is written under a temporary name and renamed into place, so
// path never holds a truncated image.
func (a *Accumulator) ExportToFile(path string, options ExportOptions) (ExportResult, error) {
	snapshot := a.Latest()
	if snapshot == nil {
		return ExportResult{Ready: false}, nil
	}
	result, err := writeFileAtomic(path, snapshot, options)
	if err != nil {
		return ExportResult{}, err
	}
	a.logger.Info("frame exported",
		"path", result.Path,
		"cycle", result.Cycle,
		"size", result.Size,
		"blake3", result.Digest,
	)
	return result, nil
}

// PFMHeader returns the PFM header for a frame: "PF" for colour, "Pf"
// for greyscale, then dimensions and a negative (little-endian) scale.
func PFMHeader(header Header) string {
	magic := "PF"
	if header.ChannelCount() == 1 {
		magic = "Pf"
	}
	return fmt.Sprintf("%s\n%d %d\n-1.0\n", magic, header.Width, header.Height)
}

// WritePFM writes snapshot to w as little-endian PFM, bottom row first.
// It returns the number of bytes written.
func WritePFM(w io.Writer, snapshot *Snapshot) (int64, error) {
	header := PFMHeader(snapshot.Header)
	written, err := io.WriteString(w, header)
	total := int64(written)
	if err != nil {
		return total, err
	}

	rowBytes := make([]byte, 4*snapshot.Header.RowSamples())
	for y := int(snapshot.Header.Height) - 1; y >= 0; y-- {
		for index, sample := range snapshot.Row(y) {
			binary.LittleEndian.PutUint32(rowBytes[4*index:], math.Float32bits(sample))
		}
		written, err := w.Write(rowBytes)
		total += int64(written)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeFileAtomic(path string, snapshot *Snapshot, options ExportOptions) (result ExportResult, err error) {
	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ExportResult{}, fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if err != nil {
			temporary.Close()
			os.Remove(temporary.Name())
		}
	}()

	buffered := bufio.NewWriterSize(temporary, 1<<16)
	size, digest, err := encodeExport(buffered, snapshot, func(w io.Writer) (io.WriteCloser, error) {
		return compressor(w, options.Compression)
	})
	if err != nil {
		return ExportResult{}, fmt.Errorf("write %s: %w", path, err)
	}
	if err := buffered.Flush(); err != nil {
		return ExportResult{}, fmt.Errorf("write %s: %w", path, err)
	}
	if err := temporary.Sync(); err != nil {
		return ExportResult{}, fmt.Errorf("sync %s: %w", path, err)
	}
	if err := temporary.Close(); err != nil {
		return ExportResult{}, fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(temporary.Name(), path); err != nil {
		return ExportResult{}, fmt.Errorf("rename export into place: %w", err)
	}

	return ExportResult{
		Ready:  true,
		Path:   path,
		Cycle:  snapshot.Cycle,
		Size:   size,
		Digest: digest,
	}, nil
}

// encodeExport writes snapshot as PFM through the stream open returns,
// hashing the uncompressed bytes. The stream is closed on every path.
func encodeExport(w io.Writer, snapshot *Snapshot, open func(io.Writer) (io.WriteCloser, error)) (int64, string, error) {
	stream, err := open(w)
	if err != nil {
		return 0, "", err
	}
	hasher := blake3.New()
	size, err := WritePFM(io.MultiWriter(stream, hasher), snapshot)
	if err != nil {
		stream.Close()
		return size, "", err
	}
	if err := stream.Close(); err != nil {
		return size, "", fmt.Errorf("finish stream: %w", err)
	}
	return size, hex.EncodeToString(hasher.Sum(nil)), nil
}

// compressor wraps w in the stream for compression. Close finishes the
// stream without closing w.
func compressor(w io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionZstd:
		encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		return encoder, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionNone:
		return nopCloser{w}, nil
	default:
		return nil, fmt.Errorf("unknown export compression %q", compression)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
