package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flowerbug/bcgt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bcgt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
currency: EUR
policy: lifo
lots_file: mylots.jsonl
accounts:
  assets: "Assets:SB:SCH:REG:"
  cash: "Assets:SB:SCH:REG:SCHONEMM"
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, bcgt.LIFO, cfg.OrderPolicy())
	assert.Equal(t, "mylots.jsonl", cfg.LotsFile)
	// Unset keys keep their defaults.
	assert.Equal(t, "latest.bc", cfg.LedgerFile)
	assert.Equal(t, "Assets:SB:SCH:REG:", cfg.Accounts.Assets)
	assert.Equal(t, "Income:SB:SCH:ROTH:PnL:", cfg.Accounts.Income)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"bad currency", "currency: dollars\n"},
		{"bad policy", "policy: newest\n"},
		{"empty lots file", `lots_file: ""` + "\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bcgt.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_EmitterConfig(t *testing.T) {
	cfg := DefaultConfig()
	ec := cfg.EmitterConfig()
	assert.Equal(t, "USD", ec.Currency)
	assert.Equal(t, "Assets:SB:SCH:ROTH:", ec.AssetsRoot)
	assert.Equal(t, "Assets:SB:SCH:ROTH:SCHONEMM", ec.Cash)
}

func TestConfig_AccountTree(t *testing.T) {
	tree := DefaultConfig().AccountTree()

	kind, ok := tree.Lookup("Assets:SB:SCH:ROTH:X", "kind")
	require.True(t, ok)
	assert.Equal(t, "holdings", kind)

	currency, ok := tree.Lookup("Income:SB:SCH:ROTH:PnL:X", "currency")
	require.True(t, ok)
	assert.Equal(t, "USD", currency)
}
