package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

func newBumpVersionCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:       "bump-version [major|minor|patch]",
		Short:     "Increment the semantic version stored in a file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"major", "minor", "patch"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read version file: %w", err)
			}

			current := strings.TrimSpace(string(data))
			next, err := bumpVersion(current, args[0])
			if err != nil {
				return err
			}

			if err := os.WriteFile(file, []byte(next+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write version file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", current, next)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "VERSION", "file holding the current version")

	return cmd
}

// bumpVersion increments one component of a semantic version and resets the lower ones.
// A missing "v" prefix is accepted, prerelease and build suffixes are dropped.
func bumpVersion(current, part string) (string, error) {
	version := current
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return "", fmt.Errorf("invalid semantic version %q", current)
	}

	// Canonical fills omitted components, "v1.2" becomes "v1.2.0"
	core := strings.TrimPrefix(semver.Canonical(version), "v")
	if pre := semver.Prerelease(version); pre != "" {
		core = strings.TrimSuffix(core, pre)
	}

	fields := strings.Split(core, ".")
	numbers := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return "", fmt.Errorf("invalid semantic version %q", current)
		}
		numbers[i] = n
	}
	major, minor, patch := numbers[0], numbers[1], numbers[2]

	switch part {
	case "major":
		major, minor, patch = major+1, 0, 0
	case "minor":
		minor, patch = minor+1, 0
	case "patch":
		patch++
	default:
		return "", fmt.Errorf("unknown version part %q, expected major, minor or patch", part)
	}

	return fmt.Sprintf("v%d.%d.%d", major, minor, patch), nil
}
