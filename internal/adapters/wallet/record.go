package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	currentRecordVersion = 1
	recordFileMode       = 0o600
	recordDirMode        = 0o700
	recordTempPattern    = ".wallet-*.toml.tmp"
)

// connectionRecord is the local memory of a granted bridge connection.
type connectionRecord struct {
	Version     int      `toml:"version"`
	Connected   bool     `toml:"connected"`
	Host        string   `toml:"host"`
	Whitelist   []string `toml:"whitelist"`
	ConnectedAt string   `toml:"connected_at"`
}

func (r *connectionRecord) applyDefaults() {
	if r.Version == 0 {
		r.Version = currentRecordVersion
	}
}

func (r connectionRecord) validateVersion() error {
	if r.Version > currentRecordVersion {
		return fmt.Errorf("unsupported wallet record version %d (current %d)", r.Version, currentRecordVersion)
	}

	return nil
}

func newConnectionRecord(host string, whitelist []string, now time.Time) connectionRecord {
	return connectionRecord{
		Version:     currentRecordVersion,
		Connected:   true,
		Host:        host,
		Whitelist:   append([]string(nil), whitelist...),
		ConnectedAt: now.UTC().Format(time.RFC3339),
	}
}

func readRecord(path string) (connectionRecord, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return connectionRecord{}, false, nil
		}
		return connectionRecord{}, false, fmt.Errorf("read wallet record: %w", err)
	}

	var record connectionRecord
	if err := toml.Unmarshal(data, &record); err != nil {
		return connectionRecord{}, false, fmt.Errorf("decode wallet record: %w", err)
	}
	if err := record.validateVersion(); err != nil {
		return connectionRecord{}, false, err
	}
	record.applyDefaults()

	return record, true, nil
}

func writeRecord(path string, record connectionRecord) error {
	record.applyDefaults()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, recordDirMode); err != nil {
		return fmt.Errorf("create wallet record directory: %w", err)
	}

	data, err := toml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode wallet record: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, recordTempPattern)
	if err != nil {
		return fmt.Errorf("create temp wallet record: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp wallet record: %w", err)
	}
	if err := tempFile.Chmod(recordFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp wallet record: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp wallet record: %w", err)
	}
	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace wallet record: %w", err)
	}
	cleanup = false

	return nil
}

func removeRecord(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove wallet record: %w", err)
	}

	return nil
}
