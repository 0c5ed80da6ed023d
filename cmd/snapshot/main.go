// Package main exports and imports compressed economy snapshots.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/orchardworks/grove/internal/platform/config"
	"github.com/orchardworks/grove/internal/storage/archive"
	"github.com/orchardworks/grove/internal/storage/sqlite"
)

func main() {
	var (
		export  string
		restore string
		inspect string
	)
	flag.StringVar(&export, "export", "", "write a snapshot of GROVE_DB_PATH to this file")
	flag.StringVar(&restore, "import", "", "load this snapshot into GROVE_DB_PATH")
	flag.StringVar(&inspect, "inspect", "", "print the manifest of this snapshot")
	flag.Parse()

	switch {
	case inspect != "":
		m, err := archive.ReadManifest(inspect)
		if err != nil {
			config.Exitf("snapshot: %v", err)
		}
		fmt.Printf("version       %d\n", m.Version)
		fmt.Printf("created       %s\n", m.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("participants  %d\n", m.Participants)
		fmt.Printf("items         %d\n", m.Items)
		fmt.Printf("supply minted %d\n", m.SupplyMinted)
	case export != "":
		if err := runExport(export); err != nil {
			config.Exitf("snapshot: %v", err)
		}
	case restore != "":
		if err := runImport(restore); err != nil {
			config.Exitf("snapshot: %v", err)
		}
	default:
		config.Exitf("snapshot: pass -export, -import, or -inspect")
	}
}

func runExport(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	snap, err := store.ExportSnapshot(ctx)
	if err != nil {
		return err
	}
	if err := archive.Write(path, snap); err != nil {
		return err
	}
	if err := archive.WriteManifest(path, snap); err != nil {
		return err
	}
	fmt.Printf("exported %d participants, %d items to %s\n", len(snap.Participants), len(snap.Items), path)
	return nil
}

func runImport(path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	snap, err := archive.Read(path)
	if err != nil {
		return err
	}
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ImportSnapshot(context.Background(), snap); err != nil {
		return err
	}
	fmt.Printf("imported %d participants, %d items into %s\n", len(snap.Participants), len(snap.Items), cfg.DatabasePath)
	return nil
}
