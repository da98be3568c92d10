// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds credentials (the Matrix access token, a login
// password) in memory that the Go runtime never manages.
//
// [Buffer] is backed by an anonymous mmap region that is mlock'ed
// against swap and madvise'd out of core dumps. Close zeroes, unlocks
// and unmaps it; reads after Close panic. [ReadFile] loads a token file
// straight into a Buffer and scrubs the heap copy.
//
// Depends on golang.org/x/sys/unix.
package secret
