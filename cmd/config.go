package cmd

import (
	"fmt"
	"os"

	"github.com/flowerbug/bcgt"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config holds the per-account configuration of the tool: the session
// currency, the default lot consumption order, the data files, and the
// account-name templates entries are written with.
type Config struct {
	Currency   string         `mapstructure:"currency"`
	Policy     string         `mapstructure:"policy"`
	LotsFile   string         `mapstructure:"lots_file"`
	LedgerFile string         `mapstructure:"ledger_file"`
	Accounts   AccountsConfig `mapstructure:"accounts"`
}

// AccountsConfig holds the account-name templates of one brokerage account
// hierarchy. Per-symbol leaves are appended to the root prefixes.
type AccountsConfig struct {
	Assets     string `mapstructure:"assets"`
	Income     string `mapstructure:"income"`
	Fees       string `mapstructure:"fees"`
	EquityFees string `mapstructure:"equity_fees"`
	Cash       string `mapstructure:"cash"`
}

// DefaultConfig returns the configuration used when no config file exists:
// a Roth brokerage hierarchy with FIFO consumption, which matches the most
// common use of the tool.
func DefaultConfig() Config {
	return Config{
		Currency:   "USD",
		Policy:     "fifo",
		LotsFile:   "lots.jsonl",
		LedgerFile: "latest.bc",
		Accounts: AccountsConfig{
			Assets:     "Assets:SB:SCH:ROTH:",
			Income:     "Income:SB:SCH:ROTH:PnL:",
			Fees:       "Expenses:SB:SCH:ROTH:Fees:RegFees",
			EquityFees: "Equity:SB:SCH:ROTH:Fees:RegFees",
			Cash:       "Assets:SB:SCH:ROTH:SCHONEMM",
		},
	}
}

// LoadConfig reads the YAML config file at path and merges it over the
// defaults. A missing file is not an error; the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("reading config file %q failed: %w", path, err)
	}
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return cfg, fmt.Errorf("parsing config file %q failed: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the loaded configuration for usable values.
func (c Config) Validate() error {
	if err := bcgt.ValidateCurrency(c.Currency); err != nil {
		return err
	}
	if _, err := bcgt.ParseOrderPolicy(c.Policy); err != nil {
		return err
	}
	if c.LotsFile == "" {
		return fmt.Errorf("lots_file cannot be empty")
	}
	if c.LedgerFile == "" {
		return fmt.Errorf("ledger_file cannot be empty")
	}
	return nil
}

// OrderPolicy returns the configured default lot consumption order.
func (c Config) OrderPolicy() bcgt.OrderPolicy {
	p, err := bcgt.ParseOrderPolicy(c.Policy)
	if err != nil {
		return bcgt.FIFO
	}
	return p
}

// EmitterConfig maps the account templates onto the engine's emitter
// configuration.
func (c Config) EmitterConfig() bcgt.EmitterConfig {
	return bcgt.EmitterConfig{
		Currency:   c.Currency,
		AssetsRoot: c.Accounts.Assets,
		IncomeRoot: c.Accounts.Income,
		FeesRoot:   c.Accounts.Fees,
		EquityFees: c.Accounts.EquityFees,
		Cash:       c.Accounts.Cash,
	}
}

// AccountTree builds the account attribute tree of the configured hierarchy,
// used by the export command to annotate and abbreviate account names.
func (c Config) AccountTree() *bcgt.AccountTree {
	tree := bcgt.NewAccountTree(map[string]string{"currency": c.Currency})
	tree.Declare(trimAccount(c.Accounts.Assets), map[string]string{"root": "true", "kind": "holdings"})
	tree.Declare(trimAccount(c.Accounts.Income), map[string]string{"kind": "pnl"})
	tree.Declare(trimAccount(c.Accounts.Fees), map[string]string{"kind": "fees"})
	tree.Declare(trimAccount(c.Accounts.EquityFees), map[string]string{"kind": "fees-contra"})
	tree.Declare(trimAccount(c.Accounts.Cash), map[string]string{"kind": "cash"})
	return tree
}

// trimAccount drops the trailing colon of a root prefix so it names a real
// account.
func trimAccount(prefix string) string {
	for len(prefix) > 0 && prefix[len(prefix)-1] == ':' {
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
