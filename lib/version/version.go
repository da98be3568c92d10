// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags -X at build time.
var (
	GitCommit = "unknown"
	GitDirty  = "false"
	BuildTime = "unknown"
	Version   = "0.1.0-dev"
)

// buildInfo is what Info reports: the injected values, with any still
// unset filled from the VCS stamp the go command embeds in the binary.
type buildInfo struct {
	commit string
	dirty  bool
	time   string
}

func current() buildInfo {
	info := buildInfo{commit: GitCommit, dirty: GitDirty == "true", time: BuildTime}
	if info.commit != "unknown" {
		return info
	}
	embedded, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range embedded.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.commit = setting.Value[:min(len(setting.Value), 7)]
		case "vcs.modified":
			info.dirty = setting.Value == "true"
		case "vcs.time":
			if info.time == "unknown" {
				info.time = setting.Value
			}
		}
	}
	return info
}

// Info returns "0.1.0-dev (abc1234, 2026-...)" for --version output.
func Info() string {
	info := current()
	dirty := ""
	if info.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, info.commit, dirty, info.time)
}

// Full returns Info plus the Go version and platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Print writes "<binary> <Full()>" to w.
func Print(w io.Writer, binary string) {
	fmt.Fprintf(w, "%s %s\n", binary, Full())
}
