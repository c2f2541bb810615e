package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleInfo_DownloadFilename(t *testing.T) {
	m := ModuleInfo{Name: "busybox-ndk", Version: "1.36.1", VersionCode: 13610}
	assert.Equal(t, "busybox-ndk-1.36.1(13610).zip", m.DownloadFilename())
}

func TestModuleInfo_DownloadFilenameSanitized(t *testing.T) {
	m := ModuleInfo{Name: "shady/module: \"beta\"", Version: "0.1", VersionCode: 1}
	name := m.DownloadFilename()
	assert.Equal(t, "shadymodule_beta-0.1(1).zip", name)
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, ":")
	assert.NotContains(t, name, `"`)
}

func TestReleaseInfo_Names(t *testing.T) {
	r := ReleaseInfo{Name: "Manager", Version: "v27.0", VersionCode: 27000}
	assert.Equal(t, "Manager-v27.0(27000)", r.DisplayName())
	assert.Equal(t, "Manager-v27.0(27000).apk", r.PackageFilename())
}

func TestLegalFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain.zip", "plain.zip"},
		{"with space.zip", "with_space.zip"},
		{"quo'te\"d.zip", "quoted.zip"},
		{"pa|th<>?.zip", "path.zip"},
		{"keep(parens)-1.0.zip", "keep(parens)-1.0.zip"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, LegalFilename(tt.input), "input %q", tt.input)
	}
}
