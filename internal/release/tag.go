// Package release resolves the CDN release tag that index entries point at.
package release

import (
	"os"
	"os/exec"
	"strings"
)

// ResolveTag determines the CDN release tag. Priority order:
//
//  1. CDN_RELEASE_TAG environment variable
//  2. current Git tag (git describe --tags --abbrev=0)
//  3. current Git branch
//  4. short commit hash
//  5. "main"
func ResolveTag() string {
	if tag := strings.TrimSpace(os.Getenv("CDN_RELEASE_TAG")); tag != "" {
		return tag
	}

	gitCmds := [][]string{
		{"describe", "--tags", "--abbrev=0"},
		{"rev-parse", "--abbrev-ref", "HEAD"},
		{"rev-parse", "--short", "HEAD"},
	}

	for _, args := range gitCmds {
		out, err := exec.Command("git", args...).Output()
		if err != nil {
			continue
		}
		tag := strings.TrimSpace(string(out))
		if tag != "" && tag != "HEAD" {
			return tag
		}
	}

	return "main"
}
