// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which build of roomview is running.
//
// Release builds inject [GitCommit], [GitDirty], [BuildTime] and
// [Version] with -ldflags -X. A plain "go build" or "go install" leaves
// them unset; [Info] then falls back to the vcs.* settings the go
// command stamps into the binary, and to "unknown" when there are none
// (test binaries, builds outside a checkout).
package version
