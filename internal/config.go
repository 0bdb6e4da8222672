package internal

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config carries default CLI settings; explicit flags always win.
type Config struct {
	ExcludeExtensions string `yaml:"exclude_extensions"`
	RespectGitignore  bool   `yaml:"respect_gitignore"`
	SearchContent     bool   `yaml:"search_content"`
	Archives          bool   `yaml:"archives"`
	Threads           int    `yaml:"threads"`
	LogLevel          string `yaml:"log_level"`
}

// DefaultConfigPath is the optional defaults file next to the favorites
// document.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "quickfindr", "config.yaml"), nil
}

// LoadConfig reads path; a missing file yields the zero Config and no
// error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
