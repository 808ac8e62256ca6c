package services

import (
	"os"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
)

// Environment variables read when building configuration.
const (
	EnvStoreURL      = "POCKETBASE_URL"
	EnvAdminEmail    = "POCKETBASE_ADMIN_EMAIL"
	EnvAdminPassword = "POCKETBASE_ADMIN_PASSWORD"
	EnvCollection    = "POCKETBASE_COLLECTION"
	EnvDebug         = "DEBUG"
	EnvPort          = "PORT"
	EnvReadOnly      = "READ_ONLY"
)

// DefaultStoreURL is used when no endpoint is configured anywhere.
const DefaultStoreURL = "http://127.0.0.1:8090"

// Override keys accepted by ApplyOverrides. Nested settings use
// dot-separated keys, matching the request-level reconfiguration channel.
const (
	OverrideStoreURL      = "pocketbase.url"
	OverrideAdminEmail    = "pocketbase.adminEmail"
	OverrideAdminPassword = "pocketbase.adminPassword"
	OverrideCollection    = "collection"
	OverrideDebug         = "debug"
	OverridePort          = "port"
	OverrideReadOnly      = "readOnly"
)

// fileConfig is the TOML config file shape.
type fileConfig struct {
	Pocketbase struct {
		URL           string `toml:"url"`
		AdminEmail    string `toml:"adminEmail"`
		AdminPassword string `toml:"adminPassword"`
	} `toml:"pocketbase"`
	Collection string `toml:"collection"`
	Debug      bool   `toml:"debug"`
	Port       int    `toml:"port"`
	ReadOnly   bool   `toml:"readOnly"`
}

// ConfigManager owns the lazily built process configuration.
//
// Configuration is constructed on the first EnsureReady call, not at
// process start, so capability discovery works with no store reachable
// and no credentials present. ApplyOverrides invalidates the current
// instance; the next EnsureReady rebuilds from scratch. An existing
// Config is never partially mutated.
type ConfigManager struct {
	mu        sync.Mutex
	filePath  string
	overrides map[string]string
	cfg       *domain.Config
	watcher   *fsnotify.Watcher
	logger    *zap.Logger
}

// NewConfigManager creates a manager reading the optional TOML config
// file at filePath. An empty filePath skips the file layer.
func NewConfigManager(filePath string, logger *zap.Logger) *ConfigManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigManager{
		filePath:  filePath,
		overrides: make(map[string]string),
		logger:    logger,
	}
}

// EnsureReady returns the current configuration, building it first if
// needed. Idempotent: repeated calls without an intervening override
// return the same instance.
func (m *ConfigManager) EnsureReady() (*domain.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg != nil {
		return m.cfg, nil
	}

	cfg, err := m.build()
	if err != nil {
		return nil, err
	}
	m.cfg = cfg
	m.logger.Debug("configuration initialised",
		zap.String("storeURL", cfg.StoreURL),
		zap.String("collection", cfg.Collection),
		zap.Bool("readOnly", cfg.ReadOnly))
	return cfg, nil
}

// ApplyOverrides merges dotted-key overrides over the file/env settings
// and invalidates the current configuration so the next EnsureReady
// rebuilds it. This is the only supported way to reconfigure a running
// process.
func (m *ConfigManager) ApplyOverrides(overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range overrides {
		m.overrides[k] = v
	}
	m.cfg = nil
	m.logger.Debug("configuration overrides applied", zap.Int("keys", len(overrides)))
}

// Current returns the configuration, or domain.ErrConfigNotReady if it
// has not been built yet.
func (m *ConfigManager) Current() (*domain.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg == nil {
		return nil, domain.ErrConfigNotReady
	}
	return m.cfg, nil
}

// Initialized reports whether configuration has been built.
func (m *ConfigManager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg != nil
}

// Invalidate discards the current configuration.
func (m *ConfigManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = nil
}

// Watch invalidates the configuration whenever the config file changes,
// so edits take effect on the next operation. Close stops the watcher.
// No-op when the manager has no config file.
func (m *ConfigManager) Watch() error {
	if m.filePath == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(m.filePath); err != nil {
		watcher.Close() //nolint:errcheck
		return err
	}

	m.mu.Lock()
	m.watcher = watcher
	m.mu.Unlock()

	go func() {
		for event := range watcher.Events {
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				m.logger.Debug("config file changed", zap.String("path", event.Name))
				m.Invalidate()
			}
		}
	}()

	return nil
}

// Close stops the config file watcher, if one is running.
func (m *ConfigManager) Close() error {
	m.mu.Lock()
	watcher := m.watcher
	m.watcher = nil
	m.mu.Unlock()

	if watcher != nil {
		return watcher.Close()
	}
	return nil
}

// build constructs a Config from, lowest precedence first: defaults,
// the TOML config file, environment variables, runtime overrides.
func (m *ConfigManager) build() (*domain.Config, error) {
	cfg := &domain.Config{
		StoreURL:   DefaultStoreURL,
		Collection: domain.DefaultCollection,
		Port:       domain.DefaultPort,
	}

	if m.filePath != "" {
		if err := m.applyFile(cfg); err != nil {
			return nil, err
		}
	}
	m.applyEnv(cfg)
	m.applyOverrideLayer(cfg)

	return cfg, nil
}

func (m *ConfigManager) applyFile(cfg *domain.Config) error {
	data, err := os.ReadFile(m.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Pocketbase.URL != "" {
		cfg.StoreURL = fc.Pocketbase.URL
	}
	if fc.Pocketbase.AdminEmail != "" {
		cfg.AdminEmail = fc.Pocketbase.AdminEmail
	}
	if fc.Pocketbase.AdminPassword != "" {
		cfg.AdminPassword = fc.Pocketbase.AdminPassword
	}
	if fc.Collection != "" {
		cfg.Collection = fc.Collection
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	cfg.Debug = cfg.Debug || fc.Debug
	cfg.ReadOnly = cfg.ReadOnly || fc.ReadOnly
	return nil
}

func (m *ConfigManager) applyEnv(cfg *domain.Config) {
	if v := os.Getenv(EnvStoreURL); v != "" {
		cfg.StoreURL = v
	}
	if v := os.Getenv(EnvAdminEmail); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv(EnvAdminPassword); v != "" {
		cfg.AdminPassword = v
	}
	if v := os.Getenv(EnvCollection); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv(EnvReadOnly); v != "" {
		cfg.ReadOnly = parseBool(v)
	}
}

func (m *ConfigManager) applyOverrideLayer(cfg *domain.Config) {
	for k, v := range m.overrides {
		switch k {
		case OverrideStoreURL:
			cfg.StoreURL = v
		case OverrideAdminEmail:
			cfg.AdminEmail = v
		case OverrideAdminPassword:
			cfg.AdminPassword = v
		case OverrideCollection:
			cfg.Collection = v
		case OverrideDebug:
			cfg.Debug = parseBool(v)
		case OverridePort:
			if port, err := strconv.Atoi(v); err == nil {
				cfg.Port = port
			}
		case OverrideReadOnly:
			cfg.ReadOnly = parseBool(v)
		default:
			m.logger.Debug("ignoring unknown override key", zap.String("key", k))
		}
	}
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
