// Package zonedir enumerates IANA zone names from an OS zoneinfo tree.
// Only the names are taken from the filesystem; the actual rule data comes
// from the embedded tzdata via the resolver, so the directory is just the
// canonical list of what exists.
package zonedir

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDirs are the zoneinfo locations tried in order when no explicit
// directory is configured.
var DefaultDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
}

// nonZoneFiles are tzdata distribution files that live alongside zones but
// are not zones themselves.
var nonZoneFiles = map[string]bool{
	"Factory":      true,
	"factory":      true,
	"posixrules":   true,
	"localtime":    true,
	"leapseconds":  true,
	"tzdata.zi":    true,
	"zone.tab":     true,
	"zone1970.tab": true,
	"zonenow.tab":  true,
	"iso3166.tab":  true,
}

// Zones returns the sorted zone-name universe found under dir, or under the
// first available default directory when dir is empty. Variant trees
// (posix/, right/), the Etc/ namespace, and bare top-level names are
// excluded, matching what the watch tables cover: named geographic zones.
func Zones(dir string, logger *slog.Logger) []string {
	dirs := DefaultDirs
	if dir != "" {
		dirs = []string{dir}
	}

	for _, d := range dirs {
		zones := scan(d, logger)
		if len(zones) > 0 {
			logger.Info("zone universe enumerated", "dir", d, "zones", len(zones))
			return zones
		}
	}
	logger.Warn("no zoneinfo directory available", "tried", dirs)
	return nil
}

func scan(root string, logger *slog.Logger) []string {
	var zones []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		if d.IsDir() {
			if skipTree(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if keepZone(name) {
			zones = append(zones, name)
		}
		return nil
	})
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("zoneinfo scan failed", "dir", root, "error", err)
		}
		return nil
	}
	sort.Strings(zones)
	return zones
}

func skipTree(name string) bool {
	lower := strings.ToLower(name)
	return lower == "posix" || lower == "right" || name == "Etc" || name == "SystemV"
}

func keepZone(name string) bool {
	if nonZoneFiles[filepath.Base(name)] {
		return false
	}
	// Named zones are Area/Location; bare top-level entries are aliases and
	// legacy names the tables do not carry.
	if !strings.Contains(name, "/") {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "posix/") || strings.HasPrefix(lower, "right/") || strings.HasPrefix(name, "Etc/") {
		return false
	}
	return true
}
