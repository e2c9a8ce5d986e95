// Package config defines the runtime configuration for fetch-audit.
//
// Configuration comes from three layers, lowest precedence first: built-in
// defaults (NewConfig), an optional .fetchaudit YAML policy file, and CLI
// flags. The resolved Config is passed through the application by value
// injection; nothing in this package is global state.
package config
