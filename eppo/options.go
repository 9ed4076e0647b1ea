package eppo

import (
	"net/url"

	"github.com/Eppo-exp/eppo-go-sdk/eppolog"
	"github.com/Eppo-exp/eppo-go-sdk/internal/assignmentcache"
	"github.com/Eppo-exp/eppo-go-sdk/internal/telemetry"
	"github.com/Eppo-exp/eppo-go-sdk/internal/wire"
)

const (
	defaultMaxRetries        = 3
	defaultPollingIntervalMs = int64(30_000)
	defaultPollingJitterMs   = int64(3_000)
)

// options is the closed option set from spec.md §4.8, assembled by applying
// every Option in order over a set of defaults.
type options struct {
	baseURL                     string
	assignmentLogger            AssignmentLogger
	assignmentCache             AssignmentCache
	assignmentCacheSet          bool
	withPersistentCache         bool
	cacheDir                    string
	pollingEnabled              bool
	pollingIntervalMs           int64
	pollingJitterMs             int64
	initialConfiguration        *wire.Configuration
	configurationChangeCallback func(*wire.Configuration)
	logger                      eppolog.Logger
	maxRetries                  int
	obfuscated                  bool
	metrics                     *telemetry.Metrics
	proxyURL                    *url.URL
}

func defaultOptions() options {
	return options{
		withPersistentCache: true,
		pollingIntervalMs:   defaultPollingIntervalMs,
		pollingJitterMs:     defaultPollingJitterMs,
		maxRetries:          defaultMaxRetries,
		obfuscated:          true,
		logger:              eppolog.Default(eppolog.Warn),
	}
}

// Option configures a Client at construction time.
type Option func(*options)

// WithBaseURL sets a custom CDN endpoint; leaving it unset (or passing "")
// triggers subdomain-derived routing from the SDK key (spec.md §6.1).
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithAssignmentLogger installs the sink invoked for loggable assignments.
func WithAssignmentLogger(logger AssignmentLogger) Option {
	return func(o *options) { o.assignmentLogger = logger }
}

// WithAssignmentCache installs a custom de-duplication cache. Passing nil
// explicitly disables de-duplication, matching spec.md §4.8's "assignmentCache
// — optional; None disables de-duplication." Omitting this option entirely
// uses an internal unbounded per-process cache.
func WithAssignmentCache(cache AssignmentCache) Option {
	return func(o *options) {
		o.assignmentCache = cache
		o.assignmentCacheSet = true
	}
}

// WithPersistentCache enables or disables the per-SDK-key file cache
// (default true).
func WithPersistentCache(enabled bool) Option {
	return func(o *options) { o.withPersistentCache = enabled }
}

// WithCacheDir overrides the app-specific cache directory the persistent
// cache is written under (default: os.UserCacheDir()).
func WithCacheDir(dir string) Option {
	return func(o *options) { o.cacheDir = dir }
}

// WithPollingEnabled enables automatic polling after initialize (default
// false).
func WithPollingEnabled(enabled bool) Option {
	return func(o *options) { o.pollingEnabled = enabled }
}

// WithPollingIntervalMs sets the poller's base interval.
func WithPollingIntervalMs(ms int64) Option {
	return func(o *options) { o.pollingIntervalMs = ms }
}

// WithPollingJitterMs sets the poller's jitter bound.
func WithPollingJitterMs(ms int64) Option {
	return func(o *options) { o.pollingJitterMs = ms }
}

// WithInitialConfiguration seeds the Store before the first fetch completes,
// so early assignment calls have something to evaluate against.
func WithInitialConfiguration(cfg *wire.Configuration) Option {
	return func(o *options) { o.initialConfiguration = cfg }
}

// WithConfigurationChangeCallback installs the callback fired whenever the
// Store's current configuration is replaced.
func WithConfigurationChangeCallback(cb func(*wire.Configuration)) Option {
	return func(o *options) { o.configurationChangeCallback = cb }
}

// WithLogger sets the SDK's own operational logger.
func WithLogger(logger eppolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxRetries sets the fetcher's max_retries parameter (spec.md §4.7).
func WithMaxRetries(n int) Option {
	return func(o *options) { o.maxRetries = n }
}

// WithObfuscation overrides whether fetched configurations are requested in
// obfuscated (client) form. Defaults to true, matching a client-side SDK
// talking to the fscdn CDN.
func WithObfuscation(obfuscated bool) Option {
	return func(o *options) { o.obfuscated = obfuscated }
}

// WithMetrics records a prometheus telemetry.Metrics set in the client's
// options. The Client does not read it: fetches, polls and persistence do
// not increment any of its counters.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithProxyURL routes the fetcher's HTTP client through an HTTP(S) proxy.
func WithProxyURL(proxyURL *url.URL) Option {
	return func(o *options) { o.proxyURL = proxyURL }
}

func resolveAssignmentCache(o options) AssignmentCache {
	if o.assignmentCacheSet {
		return o.assignmentCache
	}
	return assignmentcache.New()
}
