// Package eppo implements the Client Façade (spec.md §4.8): typed
// assignment operations, shared-instance management, and the wiring
// between the Configuration Store, Fetcher, Poller, and Assignment Cache.
// Its shared-instance pattern (at-most-one active Client per process,
// package-level mutex guarding a package-level pointer) is grounded on the
// teacher's sync.Once/shared-client idioms in core/relayenv, generalized
// from "one client per environment" to "one client per process."
package eppo

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Eppo-exp/eppo-go-sdk/eppolog"
	"github.com/Eppo-exp/eppo-go-sdk/internal/configstore"
	"github.com/Eppo-exp/eppo-go-sdk/internal/fetcher"
	"github.com/Eppo-exp/eppo-go-sdk/internal/obfuscation"
	"github.com/Eppo-exp/eppo-go-sdk/internal/poller"
	"github.com/Eppo-exp/eppo-go-sdk/internal/sdkkey"
	"github.com/Eppo-exp/eppo-go-sdk/internal/wire"
)

// AssignmentCache is the pluggable de-duplication cache interface (spec.md
// §4.5). *assignmentcache.Cache implements it; callers may supply their own.
type AssignmentCache interface {
	ShouldLog(subject, flag, allocationKey, variationKey string) bool
	Clear()
}

// AssignmentLogger receives one record per loggable, non-suppressed
// assignment (spec.md §6.4).
type AssignmentLogger interface {
	LogAssignment(record AssignmentRecord)
}

// AssignmentRecord is the external record emitted for a loggable assignment
// (spec.md §6.4).
type AssignmentRecord struct {
	FeatureFlag       string
	Allocation        string
	Experiment        string
	Variation         string
	Subject           string
	Timestamp         string
	SubjectAttributes map[string]interface{}
	ExtraLogging      map[string]string
	EntityID          *int64
}

// Client is the SDK's public façade: one active instance per process
// (spec.md §3.8), obtained via Initialize or InitializeOffline.
type Client struct {
	sdkKey  string
	store   *configstore.Store
	fetcher *fetcher.Fetcher
	logger  eppolog.Logger

	assignmentCache  AssignmentCache
	assignmentLogger AssignmentLogger

	maxRetries int
	obfuscated bool

	mu                sync.RWMutex
	changeCallback    func(*wire.Configuration)
	poller            *poller.Poller
	pollingEnabled    bool
	pollingIntervalMs int64
	pollingJitterMs   int64
}

var (
	sharedMu       sync.Mutex
	sharedInstance *Client
)

// Initialize returns the process's active Client, creating or replacing it
// as needed (spec.md §4.8): a call with the same sdkKey as the current
// instance returns it unchanged; a call with a different sdkKey replaces
// it and clears the replacement's Assignment Cache, including a
// caller-supplied one passed again via WithAssignmentCache. Performs one
// fetch, installs, starts the Poller if enabled, and invokes the
// change-callback.
func Initialize(sdkKey string, opts ...Option) (*Client, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedInstance != nil && sharedInstance.sdkKey == sdkKey {
		return sharedInstance, nil
	}
	if sharedInstance != nil {
		sharedInstance.StopPolling()
	}

	c, err := newClient(sdkKey, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Load(); err != nil {
		return nil, err
	}
	if sharedInstance != nil && c.assignmentCache != nil {
		c.assignmentCache.Clear()
	}
	if c.pollingEnabled {
		c.StartPolling(0)
	}
	sharedInstance = c
	return c, nil
}

// InitializeOffline is the same lifecycle as Initialize but seeds the Store
// from initialConfiguration instead of performing a network fetch. The
// configuration-change callback is not invoked for offline init (spec.md
// §4.8).
func InitializeOffline(sdkKey string, initialConfiguration *wire.Configuration, opts ...Option) (*Client, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedInstance != nil && sharedInstance.sdkKey == sdkKey {
		return sharedInstance, nil
	}
	if sharedInstance != nil {
		sharedInstance.StopPolling()
	}

	opts = append(opts, WithInitialConfiguration(initialConfiguration))
	c, err := newClient(sdkKey, opts...)
	if err != nil {
		return nil, err
	}
	if sharedInstance != nil && c.assignmentCache != nil {
		c.assignmentCache.Clear()
	}
	if c.pollingEnabled {
		c.StartPolling(0)
	}
	sharedInstance = c
	return c, nil
}

// ResetSharedInstance stops and discards the process's active Client, for
// tests (spec.md §4.8).
func ResetSharedInstance() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if sharedInstance != nil {
		sharedInstance.StopPolling()
	}
	sharedInstance = nil
}

func newClient(sdkKey string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cacheDir := ""
	if o.withPersistentCache {
		cacheDir = o.cacheDir
		if cacheDir == "" {
			dir, err := os.UserCacheDir()
			if err == nil {
				cacheDir = dir
			}
		}
	}

	endpoint := sdkkey.ResolveEndpoint(sdkKey, o.baseURL)
	transportCfg := fetcher.TransportConfig{ProxyURL: o.proxyURL}

	c := &Client{
		sdkKey:            sdkKey,
		store:             configstore.New(sdkKey, cacheDir),
		fetcher:           fetcher.New(endpoint, sdkKey, transportCfg, o.logger),
		logger:            o.logger,
		assignmentCache:   resolveAssignmentCache(o),
		assignmentLogger:  o.assignmentLogger,
		maxRetries:        o.maxRetries,
		obfuscated:        o.obfuscated,
		changeCallback:    o.configurationChangeCallback,
		pollingEnabled:    o.pollingEnabled,
		pollingIntervalMs: o.pollingIntervalMs,
		pollingJitterMs:   o.pollingJitterMs,
	}

	if o.initialConfiguration != nil {
		if err := c.store.Install(o.initialConfiguration); err != nil {
			c.logger.Warnf("eppo: failed to persist seeded initial configuration: %v", err)
		}
	}

	return c, nil
}

// Load performs an explicit refresh: fetch, install, and (if installed)
// fire the configuration-change callback (spec.md §4.8).
func (c *Client) Load() error {
	cfg, err := c.fetcher.Fetch(context.Background(), c.maxRetries, c.obfuscated)
	if err != nil {
		return fmt.Errorf("eppo: load: %w", err)
	}
	if err := c.store.Install(cfg); err != nil {
		c.logger.Warnf("eppo: persistence failed: %v", err)
	}

	c.mu.RLock()
	cb := c.changeCallback
	c.mu.RUnlock()
	if cb != nil {
		cb(cfg)
	}
	return nil
}

// OnConfigurationChange installs (replacing any previous) the callback
// fired whenever the Store's current configuration is replaced.
func (c *Client) OnConfigurationChange(cb func(*wire.Configuration)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changeCallback = cb
}

// StartPolling starts the refresh scheduler. A non-positive intervalMs
// keeps whatever interval the client was configured with.
func (c *Client) StartPolling(intervalMs int64) {
	c.mu.Lock()
	if intervalMs > 0 {
		c.pollingIntervalMs = intervalMs
	}
	if c.poller != nil {
		c.poller.Stop()
	}
	p := poller.New(c.pollingIntervalMs, c.pollingJitterMs, c.Load, poller.WithLogger(c.logger))
	c.poller = p
	c.mu.Unlock()
	p.Start()
}

// StopPolling halts the refresh scheduler. Idempotent and safe from any
// context (spec.md §4.7).
func (c *Client) StopPolling() {
	c.mu.Lock()
	p := c.poller
	c.mu.Unlock()
	if p != nil {
		p.Stop()
	}
}

func (c *Client) lookupFlagKey(cfg *wire.Configuration, flagKey string) string {
	if cfg.Obfuscated {
		return obfuscation.FlagKeyPlainToObf(flagKey)
	}
	return flagKey
}

func (c *Client) nowFunc() time.Time { return time.Now() }
