package check

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
)

// ConfigFiles are looked up in the checked directory, in this order.
var ConfigFiles = []string{".apexcheck.yaml", ".apexcheck.yml", ".apexcheck.toml"}

// Config controls which files a check visits and how many are parsed at
// once. The zero value checks every .cls and .trigger file.
type Config struct {
	// Include and Exclude are doublestar patterns matched against slash
	// separated paths relative to the checked directory. An empty Include
	// accepts every file.
	Include []string `yaml:"include" toml:"include"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
	// Concurrency bounds the parses in flight. Zero means one per CPU.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`
	// Anonymous lists extra extensions parsed as anonymous blocks,
	// for example ".apex".
	Anonymous []string `yaml:"anonymous" toml:"anonymous"`
}

// FileType binds a file extension to the production its files start at.
type FileType struct {
	Ext   string
	Entry parser.Entry
}

// Types returns the file types in the order they are checked.
func (c Config) Types() []FileType {
	types := []FileType{
		{Ext: ".cls", Entry: parser.EntryCompilationUnit},
		{Ext: ".trigger", Entry: parser.EntryTriggerUnit},
	}
	for _, ext := range c.Anonymous {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		types = append(types, FileType{Ext: ext, Entry: parser.EntryAnonymousUnit})
	}
	return types
}

// Matches reports whether the relative path passes the include and
// exclude patterns.
func (c Config) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	if len(c.Include) > 0 && !matchAny(c.Include, rel) {
		return false
	}
	return !matchAny(c.Exclude, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// Validate rejects malformed patterns and negative limits.
func (c Config) Validate() error {
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid pattern %q", pattern)
		}
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency %d", c.Concurrency)
	}
	return nil
}

// LoadConfig reads the first config file found in dir. A directory
// without one yields the zero Config.
func LoadConfig(dir string) (Config, error) {
	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("stat %s: %w", path, err)
		}
		return ReadConfig(path)
	}
	return Config{}, nil
}

// ReadConfig decodes a YAML or TOML config file, chosen by extension.
func ReadConfig(path string) (Config, error) {
	var cfg Config
	switch filepath.Ext(path) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
