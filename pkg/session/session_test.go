package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "imgurpurge/pkg/errors"
)

func TestLoadMissingFileIsPrecondition(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var typed *apperrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, apperrors.ErrorTypePrecondition, typed.Type)
	assert.Contains(t, err.Error(), "imgurpurge login")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Load(path)
	require.Error(t, err)

	var typed *apperrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, apperrors.ErrorTypeSession, typed.Type)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	state := &State{
		Cookies: []Cookie{
			{Name: "accesstoken", Value: "secret", Domain: ".imgur.com", Path: "/", Expires: 1900000000, Secure: true, SameSite: "Lax"},
		},
		Origins: []Origin{
			{Origin: "https://imgur.com", LocalStorage: []StorageEntry{{Name: "k", Value: "v"}}},
		},
	}

	require.NoError(t, Save(path, state))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "session file must be owner-only")
	}

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestDetectUsername(t *testing.T) {
	tests := []struct {
		name     string
		state    *State
		expected string
	}{
		{
			name: "from user origin",
			state: &State{Origins: []Origin{
				{Origin: "https://someuser.imgur.com"},
			}},
			expected: "someuser",
		},
		{
			name: "reserved origins skipped, cookie domain wins",
			state: &State{
				Origins: []Origin{{Origin: "https://www.imgur.com"}},
				Cookies: []Cookie{{Domain: "someuser.imgur.com"}},
			},
			expected: "someuser",
		},
		{
			name: "reserved cookie domains skipped",
			state: &State{Cookies: []Cookie{
				{Domain: "api.imgur.com"},
				{Domain: "i.imgur.com"},
			}},
			expected: "",
		},
		{
			name:     "empty state",
			state:    &State{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectUsername(tt.state))
		})
	}
}

func TestDetectUsernameFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, Save(path, &State{
		Origins: []Origin{{Origin: "https://someuser.imgur.com"}},
	}))

	assert.Equal(t, "someuser", DetectUsernameFromFile(path))
	assert.Equal(t, "", DetectUsernameFromFile(filepath.Join(dir, "missing.json")))
}

func TestFindStorageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"my_storage_backup.json", "storage_state.json", "unrelated.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0600))
	}

	found := FindStorageFiles(dir)

	assert.Contains(t, found, "my_storage_backup.json")
	assert.Contains(t, found, "storage_state.json")
	assert.NotContains(t, found, "unrelated.json")
	assert.Len(t, found, 2)
}

func TestFindStorageFilesEmptyDir(t *testing.T) {
	assert.Empty(t, FindStorageFiles(t.TempDir()))
}
