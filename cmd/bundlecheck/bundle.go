package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

func readBundle(path string) (*domain.IntegrityBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var b domain.IntegrityBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return &b, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
