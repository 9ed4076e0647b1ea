// Package configstore implements the Configuration Store (spec.md §4.6,
// §6.3): a thread-safe in-memory holder of the current Configuration plus an
// environment-keyed persistent file cache. The in-memory side is grounded on
// relayenv's RWMutex-guarded holder pattern, generalized to a lock-free
// atomic.Pointer swap since readers never need to observe partial state; the
// persistent side's write-temp-then-rename sequence is grounded on
// feature-flag-platform's sdk/go/offline.go saveConfiguration, with path
// construction hardened through cyphar/filepath-securejoin so a maliciously
// or accidentally crafted SDK key can never escape the cache directory.
package configstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/Eppo-exp/eppo-go-sdk/internal/wire"
)

// envelope is the persistent cache file's JSON shape (spec.md §6.3).
type envelope struct {
	FlagsConfiguration json.RawMessage `json:"flagsConfiguration"`
	Obfuscated         bool            `json:"obfuscated"`
	FetchedAt          time.Time       `json:"fetchedAt"`
	PublishedAt        time.Time       `json:"publishedAt"`
}

// Store holds the current Configuration in memory and, optionally, persists
// installs to a per-SDK-key file under cacheDir.
type Store struct {
	current  atomic.Pointer[wire.Configuration]
	sdkKey   string
	cacheDir string
}

// New returns a Store for sdkKey. cacheDir is the app-specific cache
// directory (e.g. os.UserCacheDir()'s result); an empty cacheDir disables
// persistence entirely, and every persistence method becomes a no-op.
func New(sdkKey string, cacheDir string) *Store {
	return &Store{sdkKey: sdkKey, cacheDir: cacheDir}
}

// Current returns the currently installed Configuration, or nil if none has
// ever been installed.
func (s *Store) Current() *wire.Configuration {
	return s.current.Load()
}

// Install atomically replaces the current Configuration and, if persistence
// is enabled, writes it to this store's cache file. A persistence failure is
// reported but does not roll back the in-memory install: the in-memory
// Configuration is the source of truth for evaluation (spec.md §4.6).
func (s *Store) Install(cfg *wire.Configuration) error {
	s.current.Store(cfg)
	return s.persist(cfg)
}

// LoadPersisted reads this store's cache file, if any, and returns the
// Configuration it contains. A missing file, a corrupted file, or any other
// decode failure is a non-fatal condition reported as a nil result rather
// than surfaced as an error to the caller (spec.md §4.6: "readers that observe a
// truncated file report a decode failure (non-fatal)").
func (s *Store) LoadPersisted() *wire.Configuration {
	path, ok := s.cachePath()
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}
	cfg, err := wire.Decode(env.FlagsConfiguration, env.Obfuscated)
	if err != nil {
		return nil
	}
	cfg.FetchedAt = env.FetchedAt
	cfg.PublishedAt = env.PublishedAt
	return cfg
}

// ClearPersistentCache removes this store's cache file, if any (spec.md
// §6.3). Removing an already-absent file is not an error.
func (s *Store) ClearPersistentCache() error {
	path, ok := s.cachePath()
	if !ok {
		return nil
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store) persist(cfg *wire.Configuration) error {
	path, ok := s.cachePath()
	if !ok {
		return nil
	}
	encoded, err := wire.Encode(cfg)
	if err != nil {
		return err
	}
	env := envelope{
		FlagsConfiguration: encoded,
		Obfuscated:         cfg.Obfuscated,
		FetchedAt:          cfg.FetchedAt,
		PublishedAt:        cfg.PublishedAt,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}
	if f, err := os.Open(tempPath); err == nil {
		_ = f.Sync()
		_ = f.Close()
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}
	return nil
}

// cachePath derives this store's cache file path, joined under cacheDir
// through securejoin so the stable hash filename can never traverse outside
// the eppo cache subdirectory (spec.md §6.3: "<app-cache-dir>/eppo/
// eppo-configuration-<stable-hash(sdkKey)>.json").
func (s *Store) cachePath() (string, bool) {
	if s.cacheDir == "" {
		return "", false
	}
	root, err := securejoin.SecureJoin(s.cacheDir, "eppo")
	if err != nil {
		return "", false
	}
	name := "eppo-configuration-" + stableHash(s.sdkKey) + ".json"
	joined, err := securejoin.SecureJoin(root, name)
	if err != nil {
		return "", false
	}
	return joined, true
}

func stableHash(sdkKey string) string {
	sum := sha256.Sum256([]byte(sdkKey))
	return hex.EncodeToString(sum[:])
}
