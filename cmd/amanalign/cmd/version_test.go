package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/amanalign/pkg/version"
)

func TestVersionCmd_DefaultOutput(t *testing.T) {
	// Given: the version command
	stdout, _, err := execute(t, "version")

	// Then: it prints the full version string
	require.NoError(t, err)
	assert.Contains(t, stdout, "amanalign")
	assert.Contains(t, stdout, version.Version)
	assert.Contains(t, stdout, "commit")
}

func TestVersionCmd_ShortOutput(t *testing.T) {
	stdout, _, err := execute(t, "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, version.Version, strings.TrimSpace(stdout))
}

func TestVersionCmd_JSONOutput(t *testing.T) {
	stdout, _, err := execute(t, "version", "--json")

	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, version.Version, info["version"])
	assert.Contains(t, info, "go_version")
}

func TestRootCmd_VersionFlag(t *testing.T) {
	stdout, _, err := execute(t, "--version")

	require.NoError(t, err)
	assert.Equal(t, "amanalign version "+version.Version+"\n", stdout)
}
