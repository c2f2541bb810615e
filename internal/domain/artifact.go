package domain

import (
	"fmt"
	"strings"
)

// updatePackageExt is the archive extension of app update packages
const updatePackageExt = ".apk"

// ModuleInfo describes an installable module package as published in the
// online module repository
type ModuleInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	VersionCode int64  `json:"version_code"`
	ZipURL      string `json:"zip_url"`
}

// DownloadFilename returns the canonical archive name for the module,
// with characters that are unsafe in filenames replaced
func (m ModuleInfo) DownloadFilename() string {
	return LegalFilename(fmt.Sprintf("%s-%s(%d).zip", m.Name, m.Version, m.VersionCode))
}

// ReleaseInfo describes an application release available for download
type ReleaseInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	VersionCode int64  `json:"version_code"`
	Link        string `json:"link"`
}

// DisplayName synthesizes the release title from the human version string
// and the build number
func (r ReleaseInfo) DisplayName() string {
	return fmt.Sprintf("%s-%s(%d)", r.Name, r.Version, r.VersionCode)
}

// PackageFilename returns the filename the update package is stored under
func (r ReleaseInfo) PackageFilename() string {
	return LegalFilename(r.DisplayName()) + updatePackageExt
}

// LegalFilename sanitizes a display name for use as a filename: spaces
// become underscores and shell/path-hostile characters are dropped
func LegalFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return strings.Map(func(c rune) rune {
		switch c {
		case '\'', '"', '`', '*', '/', '\\', '#', '@', '|', ':', '<', '>', '?':
			return -1
		}
		return c
	}, name)
}
