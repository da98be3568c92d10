// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for roomview.
//
// Configuration is loaded from a single file specified by either the
// ROOMVIEW_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search.
//
// Files ending in .json or .jsonc are parsed as JSON extended with
// comments and trailing commas; every other file is YAML. Both formats
// use the same snake_case keys.
//
// Path fields (matrix.token_file, log.file) support ${VAR} and
// ${VAR:-default} expansion from the environment after loading.
//
// Key exports:
//
//   - [Config] -- master struct with Matrix, Timeline, UI, Log
//   - [Default] -- returns a Config with the built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- aggregated validation errors
package config
