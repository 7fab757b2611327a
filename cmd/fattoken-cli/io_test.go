package main

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestReadExtIDsRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ext-ids.json")
	if err := os.WriteFile(path, []byte(`["68656c6c6f", "01aa"]`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	extIDs, err := readExtIDs(path)
	if err != nil {
		t.Fatalf("readExtIDs: %v", err)
	}
	if len(extIDs) != 2 || string(extIDs[0]) != "hello" {
		t.Fatalf("unexpected ext-ids: %+v", extIDs)
	}
}

func TestReadExtIDsRejectsBadHex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ext-ids.json")
	if err := os.WriteFile(path, []byte(`["zz"]`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := readExtIDs(path); err == nil {
		t.Fatalf("expected an error for invalid hex")
	}
}

func TestDecodeEntry(t *testing.T) {
	req := entryRequest{
		ChainID: "aa",
		ExtIDs:  []string{base64.StdEncoding.EncodeToString([]byte("123"))},
		Content: base64.StdEncoding.EncodeToString([]byte("{}")),
	}
	extIDs, content, err := decodeEntry(req)
	if err != nil {
		t.Fatalf("decodeEntry: %v", err)
	}
	if len(extIDs) != 1 || string(extIDs[0]) != "123" || string(content) != "{}" {
		t.Fatalf("unexpected decode: %+v %q", extIDs, content)
	}
}
