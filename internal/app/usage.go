package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v45/github"
)

// Version is set at compile time
var Version = "0.0.0"

const (
	Owner = "pingtcp"
	Repo  = "pingtcp"
)

var releaseTag = regexp.MustCompile(`^v?(\d+\.\d+\.\d+)$`)

// PrintUsage prints how pingtcp should be run
func PrintUsage(w io.Writer, executableName string) {
	fmt.Fprintf(w, "\nPINGTCP version %s\n\n", Version)
	fmt.Fprintf(w, "Try running %s like:\n", executableName)
	fmt.Fprintf(w, "%s [flags] <hostname/ip> <port number>. For example:\n", executableName)
	fmt.Fprintf(w, "%s www.example.com 443\n", executableName)
	fmt.Fprintf(w, "\n[optional flags]\n")

	fs, _ := newFlagSet()
	fs.VisitAll(func(f *flag.Flag) {
		flagName := f.Name
		if len(f.Name) > 1 {
			flagName = "-" + flagName
		}

		fmt.Fprintf(w, "  -%s : %s\n", flagName, f.Usage)
	})
}

func compareVersions(v1, v2 string) int {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	for i := range min(len(parts1), len(parts2)) {
		n1, _ := strconv.Atoi(parts1[i])
		n2, _ := strconv.Atoi(parts2[i])

		if n1 < n2 {
			return -1
		}
		if n1 > n2 {
			return 1
		}
	}

	// for cases in which version numbers differ in length
	if len(parts1) < len(parts2) {
		return -1
	}

	if len(parts1) > len(parts2) {
		return 1
	}

	return 0
}

// PrintVersion displays the version
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "PINGTCP version %s\n", Version)
}

// CheckForUpdates asks GitHub for the latest release and returns a message
// comparing it with the running version. A nil client uses the public API.
func CheckForUpdates(ctx context.Context, c *github.Client) (string, error) {
	if c == nil {
		c = github.NewClient(nil)
	}

	// unauthenticated requests from the same IP are limited to 60 per hour
	latestRelease, _, err := c.Repositories.GetLatestRelease(ctx, Owner, Repo)
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}

	latestTagName := latestRelease.GetTagName()
	latestVersion := releaseTag.FindStringSubmatch(latestTagName)

	if len(latestVersion) == 0 {
		return "", fmt.Errorf("version name does not match expected format: %s", latestTagName)
	}

	switch compareVersions(Version, latestVersion[1]) {
	case -1:
		return fmt.Sprintf("Found newer version %s\nPlease update PINGTCP from the URL below:\nhttps://github.com/%s/%s/releases/tag/%s",
			latestVersion[1], Owner, Repo, latestTagName), nil
	case 1:
		return fmt.Sprintf("Current version %s is newer than the latest release %s",
			Version, latestVersion[1]), nil
	default:
		return fmt.Sprintf("PINGTCP is on the latest version: %s", Version), nil
	}
}
