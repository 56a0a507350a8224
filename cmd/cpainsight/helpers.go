package main

import (
	"fmt"
	"io"
	"os"

	"cpainsight/internal/schema"
)

// loadSchema returns the built-in field schema, or the built-in schema with
// overrides merged in when a YAML path is given.
func loadSchema(path string) (*schema.Schema, error) {
	if path == "" {
		return schema.Default(), nil
	}
	s, err := schema.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	return s, nil
}

// openInput opens the input file, or stdin when path is "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// openOutput opens the output file for writing, or falls back when path is empty.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
