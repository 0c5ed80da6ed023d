package loot

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed table_schema.json
var tableSchemaJSON []byte

const tableSchemaName = "table.schema.json"

var tableSchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(tableSchemaName, bytes.NewReader(tableSchemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile(tableSchemaName)
}()

type tableDoc struct {
	Version uint32     `json:"version"`
	Entries []entryDoc `json:"entries"`
}

type entryDoc struct {
	Category            string `json:"category"`
	PowerValue          uint64 `json:"power_value"`
	CumulativeThreshold uint32 `json:"cumulative_threshold"`
}

// Load parses a loot table document, checks it against the embedded JSON
// Schema, and validates the structural invariants. The returned digest
// fingerprints the raw document so hosts can record exactly which table
// produced an outcome.
func Load(raw []byte) (Table, string, error) {
	digest := sha256.Sum256(raw)

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return Table{}, "", fmt.Errorf("loot table: %w", err)
	}
	if err := tableSchema.Validate(generic); err != nil {
		return Table{}, "", fmt.Errorf("loot table: %w", err)
	}

	var doc tableDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Table{}, "", fmt.Errorf("loot table: %w", err)
	}

	t := Table{Version: doc.Version, Entries: make([]Entry, 0, len(doc.Entries))}
	for i, e := range doc.Entries {
		cat, err := ParseCategory(e.Category)
		if err != nil {
			return Table{}, "", fmt.Errorf("loot table entry %d: %w", i, err)
		}
		t.Entries = append(t.Entries, Entry{
			Category:            cat,
			PowerValue:          e.PowerValue,
			CumulativeThreshold: e.CumulativeThreshold,
		})
	}
	if err := t.Validate(); err != nil {
		return Table{}, "", err
	}
	return t, hex.EncodeToString(digest[:]), nil
}

// LoadFile reads and loads a loot table document from disk.
func LoadFile(path string) (Table, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, "", err
	}
	return Load(raw)
}
