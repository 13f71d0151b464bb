package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	existing := filepath.Join(dir, "main.lua")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o600))

	got, err := First(
		Candidate{Source: "empty", Path: ""},
		Candidate{Source: "missing", Path: filepath.Join(dir, "missing.lua")},
		Candidate{Source: "existing", Path: existing},
		Candidate{Source: "fallback", Path: "/fallback", Unconditional: true},
	)
	require.NoError(t, err)
	assert.Equal(t, "existing", got.Source)
	assert.Equal(t, existing, got.Path)
}

func TestFirst_Probe(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Game.exe"), []byte("x"), 0o600))

	got, err := First(Candidate{Source: "probe", Path: dir, Probe: filepath.Join(dir, "Game.exe")})
	require.NoError(t, err)
	assert.Equal(t, dir, got.Path)

	_, err = First(Candidate{Source: "probe", Path: dir, Probe: filepath.Join(dir, "Other.exe")})
	require.ErrorIs(t, err, ErrNoCandidate)
	assert.Contains(t, err.Error(), "probe")
}

func TestGameDirCandidates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	gameDir := filepath.Join(root, "Balatro")
	binDir := filepath.Join(gameDir, "injector")
	workDir := filepath.Join(root, "cwd")
	require.NoError(t, os.MkdirAll(binDir, 0o750))

	t.Run("explicit wins", func(t *testing.T) {
		t.Parallel()

		got, err := First(GameDirCandidates(gameDir, binDir, workDir, "Balatro.exe")...)
		require.NoError(t, err)
		assert.Equal(t, "flag", got.Source)
		assert.Equal(t, gameDir, got.Path)
	})

	t.Run("working directory without exe next to binary", func(t *testing.T) {
		t.Parallel()

		got, err := First(GameDirCandidates("", binDir, workDir, "Balatro.exe")...)
		require.NoError(t, err)
		assert.Equal(t, "working directory", got.Source)
		assert.Equal(t, workDir, got.Path)
	})
}

func TestGameDirCandidates_BinaryParent(t *testing.T) {
	t.Parallel()

	gameDir := t.TempDir()
	binDir := filepath.Join(gameDir, "injector")
	require.NoError(t, os.MkdirAll(binDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(gameDir, "Balatro.exe"), []byte("MZ"), 0o600))

	got, err := First(GameDirCandidates("", binDir, "/somewhere", "Balatro.exe")...)
	require.NoError(t, err)
	assert.Equal(t, "binary parent", got.Source)
	assert.Equal(t, gameDir, got.Path)
}

func TestReplacementCandidates(t *testing.T) {
	t.Parallel()

	binDir := t.TempDir()
	gameDir := t.TempDir()

	got, err := First(ReplacementCandidates("", binDir, gameDir, "main.lua")...)
	require.NoError(t, err)
	assert.Equal(t, "game export", got.Source)
	assert.Equal(t, filepath.Join(gameDir, "export", "main.lua"), got.Path)

	local := filepath.Join(binDir, "main.lua")
	require.NoError(t, os.WriteFile(local, []byte("-- mod"), 0o600))

	got, err = First(ReplacementCandidates("", binDir, gameDir, "main.lua")...)
	require.NoError(t, err)
	assert.Equal(t, "binary directory", got.Source)
	assert.Equal(t, local, got.Path)

	explicit := filepath.Join(gameDir, "custom.lua")
	got, err = First(ReplacementCandidates(explicit, binDir, gameDir, "main.lua")...)
	require.NoError(t, err)
	assert.Equal(t, "flag", got.Source)
	assert.Equal(t, explicit, got.Path)
}
