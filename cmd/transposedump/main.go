// Command transposedump reads a length-prefixed stream of records from
// stdin, encodes them into a single transposed chunk, and writes the
// chunk to stdout. Each input record is one line: a decimal byte count,
// a space, then that many raw record bytes, then a newline.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/chunkenc/transpose"
	"github.com/chunkenc/transpose/format"
)

func main() {
	enc, err := transpose.NewEncoder(transpose.WithCompressionType(format.CompressionZstd))
	if err != nil {
		log.Fatalf("creating encoder: %v", err)
	}

	numRecords, err := feedRecords(enc, os.Stdin)
	if err != nil {
		log.Fatalf("reading records: %v", err)
	}

	out := transpose.NewWriter()
	n, decodedSize, err := enc.EncodeAndClose(out)
	if err != nil {
		log.Fatalf("encoding chunk: %v", err)
	}

	if _, err := os.Stdout.Write(out.Bytes()); err != nil {
		log.Fatalf("writing chunk: %v", err)
	}

	fmt.Fprintf(os.Stderr, "records read:     %d\n", numRecords)
	fmt.Fprintf(os.Stderr, "records encoded:  %d\n", n)
	fmt.Fprintf(os.Stderr, "decoded size:     %d bytes\n", decodedSize)
	fmt.Fprintf(os.Stderr, "chunk size:       %d bytes\n", len(out.Bytes()))

	var origTotal, compTotal int64
	for _, s := range enc.CompressionStats() {
		origTotal += s.OriginalSize
		compTotal += s.CompressedSize
	}
	if origTotal > 0 {
		fmt.Fprintf(os.Stderr, "compressed blocks: %d\n", len(enc.CompressionStats()))
		fmt.Fprintf(os.Stderr, "compression:      %d -> %d bytes (%.1f%% saved)\n",
			origTotal, compTotal, (1.0-float64(compTotal)/float64(origTotal))*100.0)
	}
}

func feedRecords(enc *transpose.Encoder, r io.Reader) (int, error) {
	scanner := bufio.NewReader(r)
	count := 0

	for {
		line, err := scanner.ReadString(' ')
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}

		n, err := strconv.Atoi(line[:len(line)-1])
		if err != nil {
			return count, fmt.Errorf("malformed length prefix %q: %w", line, err)
		}

		record := make([]byte, n)
		if _, err := io.ReadFull(scanner, record); err != nil {
			return count, err
		}
		if _, err := scanner.ReadByte(); err != nil && err != io.EOF {
			return count, err
		}

		if err := enc.AddRecord(record); err != nil {
			return count, fmt.Errorf("record %d: %w", count, err)
		}
		count++
	}
}
