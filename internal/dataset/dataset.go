// Package dataset is the single load/store boundary for the persisted place
// list: one JSON array, 2-space indented, UTF-8, sorted by (name, postcode).
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

// ErrNotFound is returned by Load when the dataset file does not exist.
var ErrNotFound = errors.New("dataset file not found")

// Exists reports whether the dataset file is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads and validates every record of the dataset. Records without a
// type are read as cities.
func Load(path string) ([]place.Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(bytes.NewReader(b))
}

// Decode parses a dataset document from r.
func Decode(r io.Reader) ([]place.Record, error) {
	var raw []place.Record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	records := make([]place.Record, 0, len(raw))
	for i, r := range raw {
		if r.Type == "" {
			r.Type = place.TypeCity
		}
		rec, err := place.New(r.Name, r.Postcode, r.Department, r.Lat, r.Lon, r.Type)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Encode writes records as a sorted, 2-space indented JSON array without
// HTML escaping and without a trailing newline.
func Encode(w io.Writer, records []place.Record) error {
	b, err := Marshal(records)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Marshal renders records the way Store persists them.
func Marshal(records []place.Record) ([]byte, error) {
	sorted := place.Sorted(records)
	if sorted == nil {
		sorted = []place.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sorted); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Store sorts and writes records to path. The document is written to a
// temporary file in the same directory and renamed over the target, so a
// failed write leaves the previous file intact.
func Store(path string, records []place.Record) error {
	b, err := Marshal(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}
