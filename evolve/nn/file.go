package nn

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SaveFile encodes net into filePath. Paths ending in ".gz" are gzip-compressed.
// The network is written to a temporary file first and renamed into place, so a
// failed save never leaves a partial network at filePath.
func SaveFile(filePath string, net *Network) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create network file '%s': %w", filePath, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	var w io.Writer = tmp
	var gzWriter *gzip.Writer
	if isGzip(filePath) {
		gzWriter = gzip.NewWriter(tmp)
		w = gzWriter
	}

	if err = Encode(w, net); err != nil {
		return fmt.Errorf("failed to encode network to '%s': %w", filePath, err)
	}
	if gzWriter != nil {
		if err = gzWriter.Close(); err != nil {
			return fmt.Errorf("failed to compress network file '%s': %w", filePath, err)
		}
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close network file '%s': %w", filePath, err)
	}
	if err = os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to move network file into '%s': %w", filePath, err)
	}
	return nil
}

// LoadFile decodes a network from filePath, decompressing ".gz" paths.
func LoadFile(filePath string) (*Network, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open network file '%s': %w", filePath, err)
	}
	defer file.Close()

	var r io.Reader = file
	if isGzip(filePath) {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for '%s': %w: %w", filePath, ErrCorruptFormat, err)
		}
		defer gzReader.Close()
		r = gzReader
	}

	net, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode network from '%s': %w", filePath, err)
	}
	return net, nil
}

func isGzip(filePath string) bool {
	return strings.HasSuffix(filePath, ".gz")
}
