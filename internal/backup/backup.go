// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package backup exports and restores the NetPlus database as
// Zstandard-compressed JSON.
package backup // import "github.com/netplus-lab/netplus/internal/backup"

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/netplus-lab/netplus/internal/db"
	"github.com/netplus-lab/netplus/internal/model"
)

// FormatVersion is written into every backup. Import rejects newer versions.
const FormatVersion = 1

// ErrUnsupportedVersion is returned by Import for backups written by a
// newer NetPlus.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Data is the full content of a backup file.
type Data struct {
	Version   int                   `json:"version"`
	CreatedAt time.Time             `json:"created_at"`
	Attempts  []model.Attempt       `json:"attempts"`
	Designs   []model.Design        `json:"designs"`
	AuditLog  []model.AuditLogEntry `json:"audit_log"`
}

// Stats counts what Import restored.
type Stats struct {
	Attempts int `json:"attempts"`
	Designs  int `json:"designs"`
	Skipped  int `json:"skipped"`
	Audit    int `json:"audit"`
}

// Export reads every table from store.
func Export(ctx context.Context, store db.Store) (*Data, error) {
	attempts, err := store.ListAttempts(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("export attempts: %w", err)
	}
	designs, err := store.ListDesigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("export designs: %w", err)
	}
	audit, err := store.AuditLog(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("export audit log: %w", err)
	}
	// Stored oldest first so a restore replays in order.
	for i, j := 0, len(audit)-1; i < j; i, j = i+1, j-1 {
		audit[i], audit[j] = audit[j], audit[i]
	}
	return &Data{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
		Attempts:  attempts,
		Designs:   designs,
		AuditLog:  audit,
	}, nil
}

// Write streams data as indented JSON through a zstd encoder.
func Write(w io.Writer, data *Data) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not flush zstd writer: %w", err)
	}
	return nil
}

// Read decodes a backup written by Write.
func Read(r io.Reader) (*Data, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	var data Data
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &data, nil
}

// Import restores data into store inside one transaction, so a failure
// leaves the store as it was. With full set, the store is wiped first;
// otherwise designs whose ID or name already exists are skipped and
// attempts are appended.
func Import(ctx context.Context, store db.Store, data *Data, full bool) (Stats, error) {
	if data.Version > FormatVersion {
		return Stats{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data.Version)
	}
	var st Stats
	err := store.RunInTx(ctx, func(ctx context.Context, tx db.Store) error {
		st = Stats{}
		return importInto(ctx, tx, data, full, &st)
	})
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}

func importInto(ctx context.Context, tx db.Store, data *Data, full bool, st *Stats) error {
	seen := map[string]bool{}
	if full {
		if err := tx.Wipe(ctx); err != nil {
			return fmt.Errorf("wipe before restore: %w", err)
		}
	} else {
		// Checked up front: a failed insert aborts the whole transaction
		// on PostgreSQL.
		existing, err := tx.ListDesigns(ctx)
		if err != nil {
			return fmt.Errorf("list designs: %w", err)
		}
		for _, d := range existing {
			seen[d.ID], seen[d.Name] = true, true
		}
	}
	for _, a := range data.Attempts {
		if _, err := tx.AddAttempt(ctx, a); err != nil {
			return fmt.Errorf("restore attempt %d: %w", a.ID, err)
		}
		st.Attempts++
	}
	for _, d := range data.Designs {
		if !full && (seen[d.ID] || seen[d.Name]) {
			st.Skipped++
			continue
		}
		if err := tx.SaveDesign(ctx, d); err != nil {
			return fmt.Errorf("restore design %q: %w", d.Name, err)
		}
		seen[d.ID], seen[d.Name] = true, true
		st.Designs++
	}
	for _, e := range data.AuditLog {
		if err := tx.LogAction(ctx, e); err != nil {
			return fmt.Errorf("restore audit entry: %w", err)
		}
		st.Audit++
	}
	return nil
}

// Migrate copies everything from src into dst, replacing dst's contents.
func Migrate(ctx context.Context, src, dst db.Store) (Stats, error) {
	data, err := Export(ctx, src)
	if err != nil {
		return Stats{}, err
	}
	return Import(ctx, dst, data, true)
}
