// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for discovering scene files, merging their
// declarations, evaluating locals and placement expressions with cty, and
// handing output bodies to sink modules for decoding.
package hcl
