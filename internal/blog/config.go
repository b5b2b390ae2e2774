package blog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	SourceDir   string `json:"source_dir"`
	OutputDir   string `json:"output_dir"`
	Homepage    string `json:"homepage"`
	BlogURL     string `json:"blog_url"`
	Stylesheet  string `json:"stylesheet"`
	Theme       string `json:"theme"`
	FrontMatter bool   `json:"front_matter"`

	// LockFile guards against concurrent builds. Empty means a per-output
	// file in the system temp dir, see [DefaultLockFile].
	LockFile string `json:"lock_file"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	SourceDirAbs string `json:"-"`
	OutputDirAbs string `json:"-"`
	HomepageAbs  string `json:"-"`
	LockFileAbs  string `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration: the paths of the
// production blog host.
func DefaultConfig() Config {
	return Config{
		SourceDir:  "/srv/www/danyaal/Portfolio/blog",
		OutputDir:  "/srv/www/danyaal/blog",
		Homepage:   "/srv/www/danyaal/html/index.html",
		BlogURL:    "https://blog.danyaal.xyz",
		Stylesheet: "github-markdown-dark.css",
		Theme:      DefaultTheme,
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".blogbuild.json"

// fileConfig is a config file as written. Pointer fields distinguish
// "absent" from "explicitly empty" or "explicitly false".
type fileConfig struct {
	SourceDir   *string `json:"source_dir"`
	OutputDir   *string `json:"output_dir"`
	Homepage    *string `json:"homepage"`
	BlogURL     *string `json:"blog_url"`
	Stylesheet  *string `json:"stylesheet"`
	Theme       *string `json:"theme"`
	FrontMatter *bool   `json:"front_matter"`
	LockFile    *string `json:"lock_file"`
}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/blogbuild/config.json if set, otherwise
// ~/.config/blogbuild/config.json. Returns empty string if home directory
// cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "blogbuild", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "blogbuild", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride   string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath        string            // -c/--config flag value
	SourceDirOverride string            // --source-dir flag value; empty means no override
	OutputDirOverride string            // --output-dir flag value; empty means no override
	HomepageOverride  string            // --homepage flag value; empty means no override
	Env               map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/blogbuild/config.json or $XDG_CONFIG_HOME/blogbuild/config.json)
// 3. Project config file at default location (.blogbuild.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := DefaultConfig()

	globalPath := getGlobalConfigPath(input.Env)
	if globalPath != "" {
		globalCfg, loaded, err := loadConfigFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = globalPath
			cfg = mergeConfig(cfg, globalCfg)
		}
	}

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	if projectPath != "" {
		cfg.Sources.Project = projectPath
		cfg = mergeConfig(cfg, projectCfg)
	}

	// Apply CLI overrides
	if input.SourceDirOverride != "" {
		cfg.SourceDir = input.SourceDirOverride
	}

	if input.OutputDirOverride != "" {
		cfg.OutputDir = input.OutputDirOverride
	}

	if input.HomepageOverride != "" {
		cfg.Homepage = input.HomepageOverride
	}

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir
	cfg.SourceDirAbs = resolvePath(workDir, cfg.SourceDir)
	cfg.OutputDirAbs = resolvePath(workDir, cfg.OutputDir)
	cfg.HomepageAbs = resolvePath(workDir, cfg.Homepage)

	cfg.LockFileAbs = DefaultLockFile(cfg.OutputDirAbs)
	if cfg.LockFile != "" {
		cfg.LockFileAbs = resolvePath(workDir, cfg.LockFile)
	}

	return cfg, nil
}

// loadProjectConfig loads the project config file (.blogbuild.json) or an
// explicit config file. Returns the parsed file, its path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (fileConfig, string, error) {
	if configPath == "" {
		cfgFile := filepath.Join(workDir, ConfigFileName)

		fileCfg, loaded, err := loadConfigFile(cfgFile, false)
		if err != nil || !loaded {
			return fileConfig{}, "", err
		}

		return fileCfg, cfgFile, nil
	}

	cfgFile := resolvePath(workDir, configPath)

	// Check existence first to provide a clear "not found" error
	_, statErr := os.Stat(cfgFile)
	if statErr != nil {
		return fileConfig{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	fileCfg, _, err := loadConfigFile(cfgFile, true)
	if err != nil {
		return fileConfig{}, "", err
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files
// return a zero config and loaded=false.
func loadConfigFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return fileConfig{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (fileConfig, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg fileConfig

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	decodeErr := dec.Decode(&cfg)
	if decodeErr != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", decodeErr)
	}

	switch {
	case isExplicitEmpty(cfg.SourceDir):
		return fileConfig{}, ErrSourceDirEmpty
	case isExplicitEmpty(cfg.OutputDir):
		return fileConfig{}, ErrOutputDirEmpty
	case isExplicitEmpty(cfg.Homepage):
		return fileConfig{}, ErrHomepageEmpty
	case isExplicitEmpty(cfg.BlogURL):
		return fileConfig{}, ErrBlogURLEmpty
	}

	return cfg, nil
}

func isExplicitEmpty(s *string) bool {
	return s != nil && *s == ""
}

func mergeConfig(base Config, overlay fileConfig) Config {
	if overlay.SourceDir != nil {
		base.SourceDir = *overlay.SourceDir
	}

	if overlay.OutputDir != nil {
		base.OutputDir = *overlay.OutputDir
	}

	if overlay.Homepage != nil {
		base.Homepage = *overlay.Homepage
	}

	if overlay.BlogURL != nil {
		base.BlogURL = *overlay.BlogURL
	}

	// An empty stylesheet is allowed: it drops the <link> tag.
	if overlay.Stylesheet != nil {
		base.Stylesheet = *overlay.Stylesheet
	}

	if overlay.Theme != nil && *overlay.Theme != "" {
		base.Theme = *overlay.Theme
	}

	if overlay.FrontMatter != nil {
		base.FrontMatter = *overlay.FrontMatter
	}

	if overlay.LockFile != nil {
		base.LockFile = *overlay.LockFile
	}

	return base
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.SourceDir == "":
		return ErrSourceDirEmpty
	case cfg.OutputDir == "":
		return ErrOutputDirEmpty
	case cfg.Homepage == "":
		return ErrHomepageEmpty
	case cfg.BlogURL == "":
		return ErrBlogURLEmpty
	}

	if !ValidTheme(cfg.Theme) {
		return fmt.Errorf("%w: %s", ErrUnknownTheme, cfg.Theme)
	}

	return nil
}

// DefaultLockFile returns the lock path used for builds into outputDir. It
// lives outside the served tree, and builds into the same directory share it.
func DefaultLockFile(outputDir string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(outputDir)))

	return filepath.Join(os.TempDir(), "blogbuild-"+hex.EncodeToString(sum[:8])+".lock")
}

func resolvePath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(workDir, path)
}
