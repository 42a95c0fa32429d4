// ============================================================================
// minilang - Typed Mini-Language Front End
// ============================================================================
//
// Package:     version
// Description: Central version information for the minic binary
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Release version of the minic tool
	Platform = "1.0.0"

	// Language revision accepted by the front end
	Language = "1.0.0"

	// Check server API version
	API = "v1"
)

// Build metadata, set via -ldflags
var (
	GitCommit = "development"
	BuildDate = "unknown"
)

// Info is the version report printed by `minic version` and served over HTTP
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Language  string `json:"language" yaml:"language"`
	API       string `json:"api" yaml:"api"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the current version info
func Get() Info {
	return Info{
		Version:   Platform,
		Language:  Language,
		API:       API,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("minic v%s (language %s, commit %s)", i.Version, i.Language, i.GitCommit)
}
