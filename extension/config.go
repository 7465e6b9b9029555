package extension

// Config holds the Books extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.books" or "books" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// DefaultCurrency is the currency used for reports and for documents
	// created without one (default: "usd").
	DefaultCurrency string `json:"default_currency" mapstructure:"default_currency" yaml:"default_currency"`

	// PostingRules selects the rule set applied when documents are marked
	// paid: "observed" or "canonical" (default: "observed").
	PostingRules string `json:"posting_rules" mapstructure:"posting_rules" yaml:"posting_rules"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// When set, the extension resolves this named database and auto-constructs
	// the appropriate store based on the driver type (pg/sqlite/mongo).
	// When empty and WithGroveDatabase was called, the default (unnamed) DB is used.
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency: "usd",
		PostingRules:    "observed",
	}
}
