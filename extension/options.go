package extension

import (
	books "github.com/xraph/books"
	"github.com/xraph/books/plugin"
	"github.com/xraph/books/store"
)

// Option configures the Books Forge extension.
type Option func(*Extension)

// WithStore sets the store for the books engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithBooksOption passes a books.Option through to the underlying engine.
func WithBooksOption(opt books.Option) Option {
	return func(e *Extension) {
		e.bookOpts = append(e.bookOpts, opt)
	}
}

// WithPlugin registers a books plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.bookOpts = append(e.bookOpts, books.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithDefaultCurrency sets the currency used for reports and for documents
// created without one.
func WithDefaultCurrency(currency string) Option {
	return func(e *Extension) { e.config.DefaultCurrency = currency }
}

// WithPostingRules selects the posting rule set by name ("observed" or
// "canonical").
func WithPostingRules(name string) Option {
	return func(e *Extension) { e.config.PostingRules = name }
}

// WithGroveDatabase sets the name of the grove.DB to resolve from the DI container.
// The extension will auto-construct the appropriate store backend (postgres/sqlite/mongo)
// based on the grove driver type. Pass an empty string to use the default (unnamed) grove.DB.
func WithGroveDatabase(name string) Option {
	return func(e *Extension) {
		e.config.GroveDatabase = name
		e.useGrove = true
	}
}
