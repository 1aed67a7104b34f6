package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

func TestScanAddList(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "movie")
	common := []string{"--db", filepath.Join(dir, "catalog.sqlite"), "--folder", folder}

	require.NoError(t, os.MkdirAll(filepath.Join(folder, "showA"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "movie1.mp4"), nil, 0o644))

	out := runCLI(t, append([]string{"scan"}, common...)...)
	assert.Contains(t, out, "2 scanned, 2 added, 0 already cataloged")

	out = runCLI(t, append([]string{"scan"}, common...)...)
	assert.Contains(t, out, "2 scanned, 0 added, 2 already cataloged")

	out = runCLI(t, append([]string{"add", "--title", "zodiac", "--filename", "zodiac.mkv"}, common...)...)
	assert.Contains(t, out, "added 3")
	assert.FileExists(t, filepath.Join(folder, "zodiac.mkv"))

	out = runCLI(t, append([]string{"list", "--sort", "title", "--desc"}, common...)...)
	// Titles compare byte-wise, so case matters.
	zodiac := strings.Index(out, "zodiac")
	show := strings.Index(out, "showA")
	movie := strings.Index(out, "movie1")
	require.True(t, zodiac >= 0 && show >= 0 && movie >= 0, out)
	assert.Less(t, zodiac, show, "descending title order")
	assert.Less(t, show, movie, "descending title order")
}

func TestListRejectsUnknownSort(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"list", "--sort", "runtime",
		"--db", filepath.Join(dir, "c.sqlite"), "--folder", filepath.Join(dir, "m")})
	assert.Error(t, root.Execute())
}

func TestRenderTable(t *testing.T) {
	out := renderTable(nil, [2]string{"Li", "Peng"})
	assert.Contains(t, out, "Li rating")
	assert.Contains(t, out, "Peng seen")
}
