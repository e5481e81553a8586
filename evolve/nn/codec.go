package nn

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Encode writes net in the text network format:
//
//	<num_layers>
//	<arch_0> <arch_1> ... <arch_{L-1}>
//	<weight rows of layer 0, one line per row>
//	<bias row of layer 0>
//	... repeated for every layer
//
// Values are written with 17 significant digits so every float64 round-trips exactly.
func Encode(w io.Writer, net *Network) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d\n", len(net.architecture))
	writeInts(bw, net.architecture)

	for i := range net.weights {
		wm := net.weights[i]
		for r := 0; r < wm.rows; r++ {
			writeFloats(bw, wm.Row(r))
		}
		writeFloats(bw, net.biases[i].data)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write network: %w", err)
	}
	return nil
}

func writeInts(bw *bufio.Writer, values []int) {
	for i, v := range values {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.Itoa(v))
	}
	bw.WriteByte('\n')
}

func writeFloats(bw *bufio.Writer, values []float64) {
	var buf [32]byte
	for i, v := range values {
		if i > 0 {
			bw.WriteByte(' ')
		}
		bw.Write(strconv.AppendFloat(buf[:0], v, 'g', 17, 64))
	}
	bw.WriteByte('\n')
}

// Decode reads a network written by Encode.
// Any malformed, missing or truncated field yields an error matching
// ErrCorruptFormat and no network. Data after the last bias row is ignored.
func Decode(r io.Reader) (*Network, error) {
	br := bufio.NewReader(r)

	header, err := readLine(br)
	if err != nil {
		return nil, corruptf("layer count: %v", err)
	}
	numLayers, err := strconv.Atoi(header)
	if err != nil {
		return nil, corruptf("layer count %q is not an integer", header)
	}
	if numLayers < 2 {
		return nil, corruptf("layer count %d, need at least 2", numLayers)
	}

	archLine, err := readLine(br)
	if err != nil {
		return nil, corruptf("architecture: %v", err)
	}
	fields := strings.Fields(archLine)
	if len(fields) != numLayers {
		return nil, corruptf("architecture lists %d widths, layer count is %d", len(fields), numLayers)
	}
	architecture := make([]int, numLayers)
	for i, f := range fields {
		width, err := strconv.Atoi(f)
		if err != nil {
			return nil, corruptf("architecture width %d: %q is not an integer", i, f)
		}
		architecture[i] = width
	}

	net, err := newZeroNetwork(architecture)
	if err != nil {
		return nil, corruptf("architecture %v: %v", architecture, err)
	}

	sc := bufio.NewScanner(br)
	sc.Split(bufio.ScanWords)
	for i := range net.weights {
		if err := readFloats(sc, net.weights[i].data); err != nil {
			return nil, corruptf("layer %d weights: %v", i, err)
		}
		if err := readFloats(sc, net.biases[i].data); err != nil {
			return nil, corruptf("layer %d biases: %v", i, err)
		}
	}
	return net, nil
}

// readLine returns the next non-blank line, trimmed.
func readLine(br *bufio.Reader) (string, error) {
	for {
		line, err := br.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
	}
}

func readFloats(sc *bufio.Scanner, dst []float64) error {
	for k := range dst {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			return fmt.Errorf("value %d of %d: %w", k, len(dst), io.ErrUnexpectedEOF)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return fmt.Errorf("value %d: %q is not a number", k, sc.Text())
		}
		dst[k] = v
	}
	return nil
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrCorruptFormat)
}
