// Package cli holds output helpers shared by the command line tools.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
)

// Version of the command line tools.
const Version = "0.1.0"

// CommitSHA is set at build time with -ldflags.
var CommitSHA = "unknown"

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string   `json:"version"`
	API       string   `json:"api"`
	CommitSHA string   `json:"commit_sha,omitempty"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	Arch      string   `json:"arch"`
	Addons    []string `json:"addons,omitempty"`
}

// NewVersionInfo describes this build for the given engine API and addons.
func NewVersionInfo(api string, addons []string) *VersionInfo {
	info := &VersionInfo{
		Version:   Version,
		API:       api,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		Addons:    addons,
	}

	if CommitSHA != "unknown" {
		info.CommitSHA = CommitSHA
	}

	return info
}

// WriteVersion prints info as indented JSON or as plain text.
func WriteVersion(w io.Writer, tool string, info *VersionInfo, jsonOutput bool) error {
	if jsonOutput {
		data, err := json.MarshalIndent(map[string]interface{}{
			"tool":         tool,
			"version_info": info,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal version info: %w", err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	}

	fmt.Fprintf(w, "%s v%s\n", tool, info.Version)
	fmt.Fprintf(w, "Engine API: %s\n", info.API)

	if info.CommitSHA != "" {
		fmt.Fprintf(w, "Commit: %s\n", info.CommitSHA)
	}

	for _, addon := range info.Addons {
		fmt.Fprintf(w, "Addon: %s\n", addon)
	}

	fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
	_, err := fmt.Fprintf(w, "Platform: %s/%s\n", info.Platform, info.Arch)

	return err
}
