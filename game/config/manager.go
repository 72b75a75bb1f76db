package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/wricardo/battleship/game/engine"
	"github.com/wricardo/battleship/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

const (
	formatJSON    = "json"
	formatHCL     = "hcl"
	formatBuiltin = "builtin"
)

// Manager handles match preset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.MatchConfig
	configs       map[string]*engine.MatchConfig
	logger        *log.Logger
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. An empty configDir
// serves only the built-in classic preset.
func NewManager(configDir string, logger *log.Logger) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}
	if logger == nil {
		logger = log.Default()
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.MatchConfig),
		logger:    logger.WithPrefix("config"),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a preset by name. The name may carry a .json or .hcl
// extension; without one, JSON is tried before HCL.
func (m *Manager) LoadConfig(name string) (*engine.MatchConfig, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	id := configID(name)

	m.mu.RLock()
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	config, err := m.readConfig(name)
	if errors.Is(err, ErrConfigNotFound) && id == engine.DefaultMatchConfig().Name {
		config, err = engine.DefaultMatchConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	m.configs[id] = config
	return config, nil
}

// readConfig reads and validates a preset file without touching the cache
func (m *Manager) readConfig(name string) (*engine.MatchConfig, error) {
	if m.configDir == "" {
		return nil, ErrConfigNotFound
	}

	candidates := []string{name}
	if ext := filepath.Ext(name); ext != ".json" && ext != ".hcl" {
		candidates = []string{name + ".json", name + ".hcl"}
	}

	for _, filename := range candidates {
		path := filepath.Join(m.configDir, filename)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var config *engine.MatchConfig
		var err error
		if filepath.Ext(filename) == ".hcl" {
			config, err = parseHCL(path)
		} else {
			config, err = parseJSON(path)
		}
		if err != nil {
			return nil, err
		}

		if err := engine.ValidateMatchConfig(config); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filename, err)
		}
		return config, nil
	}

	return nil, ErrConfigNotFound
}

func parseJSON(path string) (*engine.MatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config engine.MatchConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}
	return &config, nil
}

// hclMatchConfig is the HCL form of a preset:
//
//	name       = "fleet"
//	board_size = 20
//
//	ship "patrol_boat" {
//	  count = 3
//	}
type hclMatchConfig struct {
	Name           string    `hcl:"name"`
	Description    string    `hcl:"description,optional"`
	BoardSize      int       `hcl:"board_size"`
	Player1Name    string    `hcl:"player1_name,optional"`
	Player2Name    string    `hcl:"player2_name,optional"`
	ExtraShotOnHit bool      `hcl:"extra_shot_on_hit,optional"`
	Ships          []hclShip `hcl:"ship,block"`
}

type hclShip struct {
	Kind  string `hcl:"kind,label"`
	Count *int   `hcl:"count,optional"`
}

func parseHCL(path string) (*engine.MatchConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse HCL file: %s", ErrInvalidConfig, diags.Error())
	}

	var raw hclMatchConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode HCL: %s", ErrInvalidConfig, diags.Error())
	}

	config := &engine.MatchConfig{
		Name:           raw.Name,
		Description:    raw.Description,
		BoardSize:      raw.BoardSize,
		Player1Name:    raw.Player1Name,
		Player2Name:    raw.Player2Name,
		ExtraShotOnHit: raw.ExtraShotOnHit,
	}
	for _, ship := range raw.Ships {
		kind, err := engine.ParseShipKind(ship.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filepath.Base(path), err)
		}
		// A ship block without a count means one ship
		count := 1
		if ship.Count != nil {
			count = *ship.Count
		}
		config.Ships = append(config.Ships, engine.RosterEntry{Kind: kind, Count: count})
	}
	return config, nil
}

// ListConfigs returns information about all available presets
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}

		files := make(map[string]bool)
		var ids []string
		for _, entry := range entries {
			ext := filepath.Ext(entry.Name())
			if entry.IsDir() || (ext != ".json" && ext != ".hcl") {
				continue
			}
			files[entry.Name()] = true
			if id := configID(entry.Name()); !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}

		for _, id := range ids {
			// name.json shadows name.hcl, matching LoadConfig
			filename, format := id+".json", formatJSON
			if !files[filename] {
				filename, format = id+".hcl", formatHCL
			}

			config, err := m.LoadConfig(id)
			if err != nil {
				m.logger.Warn("skipping invalid preset", "file", filename, "err", err)
				continue
			}
			configs = append(configs, configInfo(filename, id, format, config))
		}
	}

	if builtin := engine.DefaultMatchConfig(); !seen[builtin.Name] {
		configs = append(configs, configInfo("", builtin.Name, formatBuiltin, builtin))
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

func configInfo(filename, id, format string, config *engine.MatchConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id, // This is the identifier to use for match creation
		Name:        config.Name,
		Description: config.Description,
		Format:      format,
		BoardSize:   config.BoardSize,
		ShipCount:   config.TotalShips(),
	}
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.MatchConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default preset by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached presets and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.MatchConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig uses the classic preset, which is built in when no
// classic file exists
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(engine.DefaultMatchConfig().Name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig validates a preset and writes it as JSON
func (m *Manager) SaveConfig(name string, config *engine.MatchConfig) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := engine.ValidateMatchConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if m.configDir == "" {
		return fmt.Errorf("no config directory configured")
	}

	id := configID(name)
	configPath := filepath.Join(m.configDir, id+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	m.logger.Info("preset saved", "config", id, "path", configPath)
	return nil
}

// checkName rejects preset names that would resolve outside the config
// directory
func checkName(name string) error {
	if name == "" || filepath.Base(name) != name || name == ".." {
		return fmt.Errorf("%w: preset name %q must be a plain file name", ErrInvalidConfig, name)
	}
	return nil
}

// configID strips a preset file extension
func configID(name string) string {
	switch filepath.Ext(name) {
	case ".json", ".hcl":
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
