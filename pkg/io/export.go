package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	perrors "github.com/matzehuels/graphprep/pkg/errors"
	"github.com/matzehuels/graphprep/pkg/graph/prep"
)

// OutputFormats lists the formats accepted by [Write].
var OutputFormats = []string{string(FormatJSON), string(FormatYAML)}

// ValidateOutputFormat checks that name is one of [OutputFormats].
func ValidateOutputFormat(name string) error {
	return perrors.ValidateFormat("output format", name, OutputFormats)
}

// Write encodes res in format f to w. Only JSON and YAML are supported.
func Write(res prep.Result, w io.Writer, f Format) error {
	switch f {
	case FormatJSON, "":
		return WriteJSON(res, w)
	case FormatYAML:
		return WriteYAML(res, w)
	}
	return fmt.Errorf("%w %q for output", ErrUnknownFormat, f)
}

// WriteJSON encodes res as indented JSON followed by a newline.
func WriteJSON(res prep.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes res as a YAML document with two-space indentation.
func WriteYAML(res prep.Result, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Export writes res to the file at path, replacing it atomically.
func Export(res prep.Result, path string, f Format) error {
	var buf bytes.Buffer
	if err := Write(res, &buf, f); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
