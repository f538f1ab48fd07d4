package storage

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
)

func writeGzipJSON(w io.Writer, v any) error {
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(v); err != nil {
		_ = gz.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	return nil
}

func readGzipJSON(r io.Reader, v any) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	defer gz.Close()

	if err := json.NewDecoder(gz).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func marshalGzipJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGzipJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
