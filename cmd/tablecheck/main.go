// Package main validates a loot table document and prints its odds.
package main

import (
	"flag"
	"fmt"

	"github.com/orchardworks/grove/internal/loot"
	"github.com/orchardworks/grove/internal/platform/config"
)

func main() {
	var path string
	flag.StringVar(&path, "table", "", "loot table document (default: GROVE_LOOT_TABLE)")
	flag.Parse()

	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			config.Exitf("load config: %v", err)
		}
		path = cfg.LootTablePath
	}
	if path == "" {
		config.Exitf("no loot table: pass -table or set GROVE_LOOT_TABLE")
	}

	table, digest, err := loot.LoadFile(path)
	if err != nil {
		config.Exitf("%s: %v", path, err)
	}

	fmt.Printf("table version %d\n", table.Version)
	fmt.Printf("sha256 %s\n", digest)
	fmt.Printf("%-10s %10s %8s\n", "category", "power", "odds")
	prev := uint32(0)
	for _, e := range table.Entries {
		odds := float64(e.CumulativeThreshold-prev) / float64(loot.Normalization) * 100
		fmt.Printf("%-10s %10d %7.2f%%\n", e.Category, e.PowerValue, odds)
		prev = e.CumulativeThreshold
	}
}
