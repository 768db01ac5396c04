// Package session loads and saves the browser storage state used to
// authenticate against imgur.com. The file layout matches the storage-state
// JSON produced by browser automation tools: a flat cookie list plus
// per-origin localStorage entries.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"imgurpurge/pkg/errors"
)

// Cookie is a single browser cookie in storage-state form
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"` // unix seconds, -1 for session cookies
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// StorageEntry is one localStorage key/value pair
type StorageEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Origin groups localStorage entries under their origin
type Origin struct {
	Origin       string         `json:"origin"`
	LocalStorage []StorageEntry `json:"localStorage"`
}

// State is the persisted authentication state for the target site
type State struct {
	Cookies []Cookie `json:"cookies"`
	Origins []Origin `json:"origins"`
}

// Load reads a storage state file. A missing file is a fatal precondition:
// the run must not start without an authenticated session.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrorTypePrecondition,
				fmt.Sprintf("missing session file %q, run 'imgurpurge login' first", path), err)
		}
		return nil, errors.Wrap(errors.ErrorTypeSession, "failed to read session file", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.Wrap(errors.ErrorTypeSession, "failed to parse session file", err)
	}
	return &state, nil
}

// Save writes a storage state file with owner-only permissions
func Save(path string, state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

var (
	originUserPattern = regexp.MustCompile(`https://([^.]+)\.imgur\.com`)
	domainUserPattern = regexp.MustCompile(`([^.]+)\.imgur\.com`)
)

// reserved subdomains that never identify a user
var reservedSubdomains = map[string]bool{
	"www": true, "i": true, "api": true, "m": true,
}

// DetectUsername extracts the account name from the storage state, first
// from user-scoped origins, then from cookie domains. Returns "" when
// nothing identifies a user.
func DetectUsername(state *State) string {
	for _, origin := range state.Origins {
		if m := originUserPattern.FindStringSubmatch(origin.Origin); m != nil {
			if !reservedSubdomains[m[1]] {
				return m[1]
			}
		}
	}
	for _, cookie := range state.Cookies {
		if m := domainUserPattern.FindStringSubmatch(cookie.Domain); m != nil {
			if !reservedSubdomains[m[1]] {
				return m[1]
			}
		}
	}
	return ""
}

// DetectUsernameFromFile is DetectUsername over a file path, swallowing
// read/parse errors (detection is best-effort)
func DetectUsernameFromFile(path string) string {
	state, err := Load(path)
	if err != nil {
		return ""
	}
	return DetectUsername(state)
}

// FindStorageFiles returns candidate storage state files in dir: anything
// matching *storage*.json plus the well-known default names
func FindStorageFiles(dir string) []string {
	var candidates []string
	seen := map[string]bool{}

	matches, _ := filepath.Glob(filepath.Join(dir, "*storage*.json"))
	for _, m := range matches {
		rel := filepath.Base(m)
		if !seen[rel] {
			seen[rel] = true
			candidates = append(candidates, rel)
		}
	}
	for _, name := range []string{"imgur_storage_state.json", "storage_state.json"} {
		if seen[name] {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			seen[name] = true
			candidates = append(candidates, name)
		}
	}
	return candidates
}
