package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/pkg/router"
)

const (
	// ConfigFileName is the name of the default configuration file.
	ConfigFileName = "routegen.json"

	// DefaultRoot is the default route directory.
	DefaultRoot = "src/routes"

	// DefaultOutput is the default generated module path.
	DefaultOutput = "src/generated/_generated_routes.tsx"

	// DefaultDebounce is the default stability window for watch mode.
	DefaultDebounce = 500 * time.Millisecond

	// EnvFileName is the dotenv file read from the project directory.
	EnvFileName = ".env"
)

// ConfigFileNames are the recognized configuration files, in lookup order.
var ConfigFileNames = []string{"routegen.json", "routegen.yaml", "routegen.yml", "routegen.toml"}

// Config represents the complete routegen configuration.
type Config struct {
	// Root is the directory to scan and watch.
	Root string `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty"`

	// Output is the generated module path.
	Output string `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`

	// Manifest is an optional JSON route list path.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty" toml:"manifest,omitempty"`

	// SrcAlias prefixes import references. Empty means relative references.
	SrcAlias string `json:"srcAlias,omitempty" yaml:"srcAlias,omitempty" toml:"srcAlias,omitempty"`

	// LayoutFilename is the file recognized as a layout wrapper.
	LayoutFilename string `json:"layoutFilename,omitempty" yaml:"layoutFilename,omitempty" toml:"layoutFilename,omitempty"`

	// Extensions are the recognized route file extensions in priority order.
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore lists extra entry names skipped by scan and watch.
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Dev contains watch mode configuration.
	Dev DevConfig `json:"dev" yaml:"dev" toml:"dev"`

	// Publish contains the optional S3 publish target.
	Publish PublishConfig `json:"publish,omitempty" yaml:"publish,omitempty" toml:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string

	// baseDir resolves relative paths when there is no config file.
	baseDir string
}

// DevConfig contains watch mode settings.
type DevConfig struct {
	// Debounce is the quiet period after the last change before a rebuild.
	Debounce Duration `json:"debounce,omitempty" yaml:"debounce,omitempty" toml:"debounce,omitempty"`

	// Addr is the dev server listen address. Empty disables the server.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty" toml:"addr,omitempty"`

	// HotReload enables websocket notifications after rebuilds.
	HotReload bool `json:"hotReload" yaml:"hotReload" toml:"hotReload"`
}

// PublishConfig is an S3 location the generated module is uploaded to.
type PublishConfig struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty" toml:"bucket,omitempty"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty"`

	// Endpoint overrides the S3 endpoint for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
}

// Enabled reports whether a publish target is configured.
func (p PublishConfig) Enabled() bool {
	return p.Bucket != ""
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Root:           DefaultRoot,
		Output:         DefaultOutput,
		LayoutFilename: router.DefaultLayoutFilename,
		Extensions:     append([]string(nil), router.DefaultExtensions...),
		Dev: DevConfig{
			Debounce:  Duration(DefaultDebounce),
			HotReload: true,
		},
	}
}

// Default returns a Config with default values whose relative paths resolve
// against dir.
func Default(dir string) *Config {
	cfg := New()
	cfg.baseDir = dir
	return cfg
}

// Load reads configuration from the specified directory, trying each of
// ConfigFileNames in order.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigNotFound).
		WithDetail("No routegen configuration found in " + dir)
}

// LoadFile reads configuration from the specified file path. The format
// follows the extension: .json, .yaml/.yml or .toml.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigNotFound).
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path))
		}
		return nil, errors.New(errors.CodeConfigParse).Wrap(err)
	}

	cfg := New()
	if err := decode(path, data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid " + formatName(path))
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
}

func encode(path string, cfg *Config) ([]byte, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	case ".toml":
		return toml.Marshal(cfg)
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func formatName(path string) string {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return "YAML"
	case ".toml":
		return "TOML"
	default:
		return "JSON"
	}
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path in the format its
// extension implies.
func (c *Config) SaveTo(path string) error {
	data, err := encode(path, c)
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeWriteFailed).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory relative paths resolve against: the directory
// containing the config file, or the base directory of a default config.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return c.baseDir
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.LayoutFilename == "" {
		c.LayoutFilename = router.DefaultLayoutFilename
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), router.DefaultExtensions...)
	}
	if c.Dev.Debounce == 0 {
		c.Dev.Debounce = Duration(DefaultDebounce)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("root must not be empty")
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("output must not be empty")
	}
	if strings.ContainsAny(c.LayoutFilename, `/\`) {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("layoutFilename must be a file name, got " + c.LayoutFilename)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail(fmt.Sprintf("extension %q must start with a dot", ext)).
				WithSuggestion(`Use values like ".tsx"`)
		}
	}
	if c.Dev.Debounce < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("dev.debounce must not be negative")
	}
	if c.Publish.Enabled() && c.Publish.Key == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("publish.key is required when publish.bucket is set")
	}
	return nil
}

// RootPath returns the absolute path to the route directory.
func (c *Config) RootPath() string {
	return c.resolve(c.Root)
}

// OutputPath returns the absolute path to the generated module.
func (c *Config) OutputPath() string {
	return c.resolve(c.Output)
}

// ManifestPath returns the absolute path to the manifest, or "" when no
// manifest is configured.
func (c *Config) ManifestPath() string {
	if c.Manifest == "" {
		return ""
	}
	return c.resolve(c.Manifest)
}

func (c *Config) resolve(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Dir(), path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Conventions returns the scanner conventions this configuration describes.
func (c *Config) Conventions() router.Conventions {
	return router.Conventions{
		Root:           c.RootPath(),
		Alias:          c.SrcAlias,
		LayoutFilename: c.LayoutFilename,
		Extensions:     append([]string(nil), c.Extensions...),
		Ignore:         append([]string(nil), c.Ignore...),
		Exclude:        c.generatedPaths(),
	}
}

// generatedPaths returns the files routegen writes.
func (c *Config) generatedPaths() []string {
	paths := []string{c.OutputPath()}
	if manifest := c.ManifestPath(); manifest != "" {
		paths = append(paths, manifest)
	}
	return paths
}

// Environment variables that override file settings.
const (
	EnvRoot           = "ROUTEGEN_ROOT"
	EnvOutput         = "ROUTEGEN_OUTPUT"
	EnvSrcAlias       = "ROUTEGEN_SRC_ALIAS"
	EnvLayoutFilename = "ROUTEGEN_LAYOUT_FILENAME"
	EnvDebounce       = "ROUTEGEN_DEBOUNCE"
)

// ApplyEnv overrides settings from the environment. Variables set in the
// process win over those in the project's .env file.
func (c *Config) ApplyEnv() error {
	dotenv := map[string]string{}
	path := filepath.Join(c.Dir(), EnvFileName)
	if _, err := os.Stat(path); err == nil {
		values, err := godotenv.Read(path)
		if err != nil {
			return errors.New(errors.CodeConfigParse).
				WithDetail("Failed to parse " + path).
				Wrap(err)
		}
		dotenv = values
	}

	return c.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvRoot); ok && v != "" {
		c.Root = v
	}
	if v, ok := lookup(EnvOutput); ok && v != "" {
		c.Output = v
	}
	if v, ok := lookup(EnvSrcAlias); ok {
		c.SrcAlias = v
	}
	if v, ok := lookup(EnvLayoutFilename); ok && v != "" {
		c.LayoutFilename = v
	}
	if v, ok := lookup(EnvDebounce); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail(fmt.Sprintf("%s=%q is not a duration", EnvDebounce, v)).
				WithSuggestion(`Use values like "500ms" or "1s"`)
		}
		c.Dev.Debounce = Duration(d)
	}
	return c.Validate()
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a routegen config, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigNotFound).
				WithDetail("No routegen configuration found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest ancestor with a config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
