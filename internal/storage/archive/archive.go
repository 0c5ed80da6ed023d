// Package archive reads and writes compressed economy snapshots.
//
// A snapshot is a zstd-compressed JSON document holding the full economy
// state: the global emission row plus every participant and item. Snapshots
// are the backup and migration format; live traffic always goes through the
// SQLite store.
package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/orchardworks/grove/internal/engine"
)

// Version is the current snapshot format version.
const Version = 1

// Snapshot is one full dump of the economy state.
type Snapshot struct {
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	Economy      *EconomyV1      `json:"economy,omitempty"`
	Participants []ParticipantV1 `json:"participants"`
	Items        []ItemV1        `json:"items"`
}

// EconomyV1 mirrors engine.GlobalEconomyState with stable field names.
type EconomyV1 struct {
	TotalPower      uint64 `json:"total_power"`
	Rate            uint64 `json:"rate"`
	NextHalvingTime int64  `json:"next_halving_time"`
	HalvingInterval int64  `json:"halving_interval"`
	SupplyMinted    uint64 `json:"supply_minted"`
	SupplyCap       uint64 `json:"supply_cap"`
}

// ParticipantV1 mirrors engine.Participant with stable field names. Empty
// referral slots serialize as empty strings.
type ParticipantV1 struct {
	ID                     string `json:"id"`
	Power                  uint64 `json:"power"`
	LastAccrual            int64  `json:"last_accrual"`
	ReferrerL1             string `json:"referrer_l1,omitempty"`
	ReferrerL2             string `json:"referrer_l2,omitempty"`
	ReferralExempt         bool   `json:"referral_exempt,omitempty"`
	PendingReferralBalance uint64 `json:"pending_referral_balance,omitempty"`
	Level                  uint8  `json:"level"`
	CumulativePurchases    uint32 `json:"cumulative_purchases"`
}

// ItemV1 mirrors engine.Item with stable field names. Items are stored in
// per-owner insertion order so a restore rebuilds the same eviction order.
type ItemV1 struct {
	ID         uint64 `json:"id"`
	Owner      string `json:"owner"`
	Category   string `json:"category"`
	PowerValue uint64 `json:"power_value"`
	Planted    bool   `json:"planted,omitempty"`
}

// Write stores the snapshot at path, creating parent directories as needed.
func Write(path string, snap Snapshot) error {
	if snap.Version == 0 {
		snap.Version = Version
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Read loads a snapshot from path.
func Read(path string) (Snapshot, error) {
	var snap Snapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	if err := json.NewDecoder(bufio.NewReaderSize(dec, 256*1024)).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != Version {
		return snap, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return snap, nil
}

// Manifest is the uncompressed YAML sidecar written next to a snapshot so
// operators can inspect a backup without decompressing it.
type Manifest struct {
	Version      int       `yaml:"version"`
	CreatedAt    time.Time `yaml:"created_at"`
	Participants int       `yaml:"participants"`
	Items        int       `yaml:"items"`
	SupplyMinted uint64    `yaml:"supply_minted"`
}

// WriteManifest stores the manifest for snap next to path with a .yaml
// extension.
func WriteManifest(path string, snap Snapshot) error {
	m := Manifest{
		Version:      snap.Version,
		CreatedAt:    snap.CreatedAt,
		Participants: len(snap.Participants),
		Items:        len(snap.Items),
	}
	if snap.Economy != nil {
		m.SupplyMinted = snap.Economy.SupplyMinted
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(manifestPath(path), data, 0o644)
}

// ReadManifest loads the manifest sidecar for the snapshot at path.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(manifestPath(path))
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

func manifestPath(path string) string {
	return path + ".yaml"
}

// FromEconomy converts the engine state into its snapshot form.
func FromEconomy(g engine.GlobalEconomyState) *EconomyV1 {
	return &EconomyV1{
		TotalPower:      g.TotalPower,
		Rate:            g.Rate,
		NextHalvingTime: g.NextHalvingTime,
		HalvingInterval: g.HalvingInterval,
		SupplyMinted:    g.SupplyMinted,
		SupplyCap:       g.SupplyCap,
	}
}

// ToEconomy converts the snapshot form back into engine state.
func (e *EconomyV1) ToEconomy() engine.GlobalEconomyState {
	return engine.GlobalEconomyState{
		TotalPower:      e.TotalPower,
		Rate:            e.Rate,
		NextHalvingTime: e.NextHalvingTime,
		HalvingInterval: e.HalvingInterval,
		SupplyMinted:    e.SupplyMinted,
		SupplyCap:       e.SupplyCap,
	}
}
