// Package config defines the format-agnostic scene model for the
// application, along with the Loader interface for reading scenes from
// various sources.
//
// The `config.Scene` is the single source of truth for the `app` package.
// Concrete loaders, such as the HCL one, are provided in separate packages.
package config
