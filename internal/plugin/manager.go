package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrPluginNotFound is returned when a requested actuator does not exist.
var ErrPluginNotFound = errors.New("plugin not found")

// Manager discovers actuators and serves lookups by name or action.
type Manager struct {
	pluginDir string

	mu      sync.RWMutex
	plugins map[string]*Plugin
}

// NewManager creates a Manager rooted at pluginDir.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		plugins:   make(map[string]*Plugin),
	}
}

// Discover rescans the plugin directory. Each subdirectory holding a
// plugin.json manifest becomes an actuator; unreadable or malformed
// entries are skipped. A missing directory yields an empty set.
func (m *Manager) Discover() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plugins = make(map[string]*Plugin)

	info, err := os.Stat(m.pluginDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginPath := filepath.Join(m.pluginDir, entry.Name())
		manifestData, err := os.ReadFile(filepath.Join(pluginPath, "plugin.json"))
		if err != nil {
			continue
		}

		var manifest Manifest
		if err := json.Unmarshal(manifestData, &manifest); err != nil {
			continue
		}
		if manifest.Name == "" || manifest.Executable == "" {
			continue
		}

		m.plugins[manifest.Name] = &Plugin{
			Manifest:   manifest,
			Path:       pluginPath,
			Executable: filepath.Join(pluginPath, manifest.Executable),
		}
	}

	return nil
}

// Get returns an actuator by name, or ErrPluginNotFound.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	if !ok {
		return nil, ErrPluginNotFound
	}
	return p, nil
}

// FindByAction returns the first actuator that declares the action,
// or ErrPluginNotFound.
func (m *Manager) FindByAction(action string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.plugins {
		if p.Handles(action) {
			return p, nil
		}
	}
	return nil, ErrPluginNotFound
}

// List returns all discovered actuators.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := make([]*Plugin, 0, len(m.plugins))
	for _, p := range m.plugins {
		plugins = append(plugins, p)
	}
	return plugins
}

// PluginDir returns the plugin directory path.
func (m *Manager) PluginDir() string {
	return m.pluginDir
}
