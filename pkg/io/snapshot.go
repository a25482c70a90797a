package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
)

// WriteSnapshot encodes s to w in the given format.
func WriteSnapshot(w io.Writer, s gantt.Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}

// ReadSnapshot decodes a snapshot written by [WriteSnapshot].
func ReadSnapshot(r io.Reader, format Format) (gantt.Snapshot, error) {
	var s gantt.Snapshot
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&s)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&s)
	default:
		return s, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s snapshot", format)
	}
	return s, nil
}

// ExportSnapshot writes s to the file at path, picking the format from the
// extension.
func ExportSnapshot(s gantt.Snapshot, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(f, s, format)
}
