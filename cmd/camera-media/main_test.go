package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/camera-media-mcp/internal/rgba"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "camera-media "+Version))
	assert.Contains(t, out, "Git commit: "+GitCommit)
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.rgba")

	payload := make([]byte, rgba.HeaderSize, rgba.HeaderSize+2*3*4)
	copy(payload, rgba.Magic)
	binary.BigEndian.PutUint32(payload[4:8], 2)
	binary.BigEndian.PutUint32(payload[8:12], 3)
	payload = append(payload, make([]byte, 2*3*4)...)
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	cfgPath := filepath.Join(dir, "camera-media.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nlevel = \"error\"\n"), 0o600))

	out, err := execute(t, "--config", cfgPath, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"decoded": true`)
	assert.Contains(t, out, `"width": 2`)
	assert.Contains(t, out, `"height": 3`)
}

func TestInspectCommand_DeclaredType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.bin")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	out, err := execute(t, "inspect", "--content-type", "image/jpeg", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"content_type": "image/jpeg"`)
	assert.Contains(t, out, `"decoded": false`)
}

func TestInspectCommand_RequiresFile(t *testing.T) {
	_, err := execute(t, "inspect")
	assert.Error(t, err)
}

func TestInspectCommand_MissingConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "inspect", "x.rgba")
	assert.Error(t, err)
}
