// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FSInfo struct, which stores file system metadata.
//
// Why store the file path?
//
// A scene can be split across many files. Keeping the path next to every
// parsed declaration lets error messages say exactly which file a bad
// placement or output came from.
package model

// FSInfo links a parsed declaration back to its source file.
type FSInfo struct {
	FilePath string
}

// NewFSInfo returns FSInfo for filePath.
func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}
