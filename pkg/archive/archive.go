// Package archive bundles generated files into a zip download.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// Entry is one file inside the archive.
type Entry struct {
	Filename string
	Data     []byte
	Modified time.Time
}

// Write streams entries as a zip archive to w.
func Write(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Filename, Method: zip.Deflate, Modified: e.Modified}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", e.Filename, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("write %s: %w", e.Filename, err)
		}
	}
	return zw.Close()
}

// Bytes returns the archive as a byte slice.
func Bytes(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Write(buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSV encodes a header row followed by records.
func CSV(header []string, records [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	cw := csv.NewWriter(buf)
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	if err := cw.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
