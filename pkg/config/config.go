/*
Package config manages TOML config for typofix services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/typofix/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Dict       DictConfig       `toml:"dict"`
	Correction CorrectionConfig `toml:"correction"`
	Session    SessionConfig    `toml:"session"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit   int `toml:"max_limit"`
	MaxWordLen int `toml:"max_word_len"`
}

// DictConfig holds dictionary asset options.
type DictConfig struct {
	DataDir          string   `toml:"data_dir"`
	Languages        []string `toml:"languages"`
	ContractionsFile string   `toml:"contractions_file"`
}

// CorrectionConfig holds the decision thresholds. These are tunable
// heuristics, expected to be recalibrated against real typing data.
type CorrectionConfig struct {
	AutoApplyConfidence float64 `toml:"auto_apply_confidence"`
	AmbiguityMargin     float64 `toml:"ambiguity_margin"`
	MaxSuggestions      int     `toml:"max_suggestions"`
	MaxEditDistance     int     `toml:"max_edit_distance"`
}

// SessionConfig holds per-input-field session options.
type SessionConfig struct {
	ContextSize int `toml:"context_size"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "typofix")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "typofix")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/typofix/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:   64,
			MaxWordLen: 60,
		},
		Dict: DictConfig{
			DataDir:   "data/",
			Languages: []string{"en"},
		},
		Correction: CorrectionConfig{
			AutoApplyConfidence: 0.8,
			AmbiguityMargin:     0.05,
			MaxSuggestions:      5,
			MaxEditDistance:     2,
		},
		Session: SessionConfig{
			ContextSize: 10,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if correctionSection, ok := utils.ExtractSection(tempConfig, "correction"); ok {
		extractCorrectionConfig(correctionSection, &config.Correction)
	}
	if sessionSection, ok := utils.ExtractSection(tempConfig, "session"); ok {
		extractSessionConfig(sessionSection, &config.Session)
	}
	return config, nil
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_word_len"); ok {
		server.MaxWordLen = val
	}
}

// extractDictConfig extracts dictionary configuration from a map
func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "data_dir"); ok {
		dict.DataDir = val
	}
	if val, ok := utils.ExtractStringSlice(data, "languages"); ok {
		dict.Languages = val
	}
	if val, ok := utils.ExtractString(data, "contractions_file"); ok {
		dict.ContractionsFile = val
	}
}

// extractCorrectionConfig extracts the decision thresholds from a map
func extractCorrectionConfig(data map[string]any, correction *CorrectionConfig) {
	if val, ok := utils.ExtractFloat64(data, "auto_apply_confidence"); ok {
		correction.AutoApplyConfidence = val
	}
	if val, ok := utils.ExtractFloat64(data, "ambiguity_margin"); ok {
		correction.AmbiguityMargin = val
	}
	if val, ok := utils.ExtractInt64(data, "max_suggestions"); ok {
		correction.MaxSuggestions = val
	}
	if val, ok := utils.ExtractInt64(data, "max_edit_distance"); ok {
		correction.MaxEditDistance = val
	}
}

// extractSessionConfig extracts session config from a map
func extractSessionConfig(data map[string]any, session *SessionConfig) {
	if val, ok := utils.ExtractInt64(data, "context_size"); ok {
		session.ContextSize = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return utils.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
