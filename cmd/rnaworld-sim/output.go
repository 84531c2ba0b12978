package main

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/daniacca/rnaworld/internal/rna"
)

// statsWriter appends stats records as CSV rows. The header is written with
// the first row. A nil writer discards everything.
type statsWriter struct {
	w             io.Writer
	headerWritten bool
}

func newStatsWriter(w io.Writer) *statsWriter {
	return &statsWriter{w: w}
}

// Write appends one stats row.
func (sw *statsWriter) Write(st rna.Stats) error {
	if sw == nil {
		return nil
	}

	records := []rna.Stats{st}
	if !sw.headerWritten {
		if err := gocsv.Marshal(records, sw.w); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		sw.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, sw.w); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}
	return nil
}
