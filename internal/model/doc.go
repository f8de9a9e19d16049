// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of forestgrid HCL
// scene files. Its core purpose is to turn raw HCL into a strongly-typed,
// statically validated description of the user's declarations, without yet
// evaluating any expressions.
//
// # Core Concepts
//
//   - File: Everything declared in one .hcl file: the optional `kind`
//     attribute, `locals`, `placement` blocks and `output` blocks.
//
//   - Placement: One `placement "<category>" "<variant>"` block. Its x, y and
//     count attributes are kept as hcl.Expression values because they may
//     reference locals and `count.index`.
//
//   - Output: One `output "<type>"` block. Its body is kept raw; the sink
//     module that handles the type decodes it into its own input struct.
//
//   - FSInfo: Metadata that links every declaration back to its source file
//     for error messages.
//
// Why a separate model package?
//
// Structural problems (unknown blocks, empty labels, a fractional literal
// count) are caught here, before any evaluation. The loader in the `hcl`
// package then only has to deal with evaluation errors.
package model
