package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// readExtIDs loads an ext-id list from a JSON file containing an array
// of hex strings, e.g. ["68656c6c6f", "01aa..", "..."].
func readExtIDs(path string) ([][]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ext-ids file: %w", err)
	}
	var hexStrings []string
	if err := json.Unmarshal(raw, &hexStrings); err != nil {
		return nil, fmt.Errorf("ext-ids file is not a JSON array of hex strings: %w", err)
	}
	extIDs := make([][]byte, len(hexStrings))
	for i, s := range hexStrings {
		b, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("ext-id %d is not valid hex: %w", i, err)
		}
		extIDs[i] = b
	}
	return extIDs, nil
}

func readContent(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	return raw, nil
}
