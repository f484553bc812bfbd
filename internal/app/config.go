package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type fileConfig struct {
	Locale    string                `toml:"locale"`
	TZ        string                `toml:"tz"`
	State     string                `toml:"state"`
	StatePath string                `toml:"state_path"`
	Attach    *bool                 `toml:"attach"`
	Output    string                `toml:"output"`
	LogLevel  string                `toml:"log_level"`
	LogFormat string                `toml:"log_format"`
	LogFile   string                `toml:"log_file"`
	Profile   string                `toml:"profile"`
	Profiles  map[string]fileConfig `toml:"profiles"`
}

func resolveGlobalOptions(cmd *cobra.Command, defaults *globalOptions) (*globalOptions, error) {
	resolved := *defaults

	profile := firstNonEmpty(env("STENOTIME_PROFILE"), defaults.Profile)
	if flagValueChanged(cmd, "profile") {
		profile = defaults.Profile
	}
	if profile == "" {
		profile = "default"
	}
	resolved.Profile = profile

	userPath := defaultUserConfigPath()
	projectPath := ".stenotime.toml"
	configPath := firstNonEmpty(env("STENOTIME_CONFIG"), userPath)
	if flagValueChanged(cmd, "config") {
		configPath = defaults.Config
	}

	if cfg, ok := readConfigFile(userPath); ok {
		applyFileConfig(&resolved, cfg, profile)
	}
	if cfg, ok := readConfigFile(projectPath); ok {
		applyFileConfig(&resolved, cfg, profile)
	}
	if configPath != "" && configPath != userPath && configPath != projectPath {
		if cfg, ok := readConfigFile(configPath); ok {
			applyFileConfig(&resolved, cfg, profile)
		}
	}

	applyEnv(&resolved)
	applyFlags(cmd, &resolved, defaults)

	if resolved.Config == "" {
		resolved.Config = configPath
	}
	return &resolved, nil
}

func applyFileConfig(dst *globalOptions, cfg fileConfig, profile string) {
	if p, ok := cfg.Profiles[profile]; ok {
		cfg = mergeFileConfig(cfg, p)
	}
	if cfg.Locale != "" {
		dst.Locale = cfg.Locale
	}
	if cfg.TZ != "" {
		dst.TZ = cfg.TZ
	}
	if cfg.State != "" {
		dst.State = cfg.State
	}
	if cfg.StatePath != "" {
		dst.StatePath = cfg.StatePath
	}
	if cfg.Attach != nil {
		dst.Attach = *cfg.Attach
	}
	if cfg.LogLevel != "" {
		dst.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		dst.LogFormat = cfg.LogFormat
	}
	if cfg.LogFile != "" {
		dst.LogFile = cfg.LogFile
	}
	applyOutputMode(dst, cfg.Output)
}

func mergeFileConfig(base, overlay fileConfig) fileConfig {
	if overlay.Locale != "" {
		base.Locale = overlay.Locale
	}
	if overlay.TZ != "" {
		base.TZ = overlay.TZ
	}
	if overlay.State != "" {
		base.State = overlay.State
	}
	if overlay.StatePath != "" {
		base.StatePath = overlay.StatePath
	}
	if overlay.Attach != nil {
		base.Attach = overlay.Attach
	}
	if overlay.Output != "" {
		base.Output = overlay.Output
	}
	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		base.LogFormat = overlay.LogFormat
	}
	if overlay.LogFile != "" {
		base.LogFile = overlay.LogFile
	}
	if overlay.Profile != "" {
		base.Profile = overlay.Profile
	}
	return base
}

func applyOutputMode(dst *globalOptions, v string) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "json":
		dst.JSON, dst.Plain = true, false
	case "plain":
		dst.JSON, dst.Plain = false, true
	}
}

func applyEnv(dst *globalOptions) {
	if v := env("STENOTIME_LOCALE"); v != "" {
		dst.Locale = v
	}
	if v := env("STENOTIME_TZ"); v != "" {
		dst.TZ = v
	}
	if v := env("STENOTIME_STATE"); v != "" {
		dst.State = v
	}
	if v := env("STENOTIME_STATE_PATH"); v != "" {
		dst.StatePath = v
	}
	if v := env("STENOTIME_ATTACH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			dst.Attach = b
		}
	}
	if v := env("STENOTIME_LOG_LEVEL"); v != "" {
		dst.LogLevel = v
	}
	if v := env("STENOTIME_LOG_FORMAT"); v != "" {
		dst.LogFormat = v
	}
	if v := env("STENOTIME_LOG_FILE"); v != "" {
		dst.LogFile = v
	}
	applyOutputMode(dst, env("STENOTIME_OUTPUT"))
}

func applyFlags(cmd *cobra.Command, dst, fromFlags *globalOptions) {
	copyIfChanged(cmd, "json", func() { dst.JSON = fromFlags.JSON })
	copyIfChanged(cmd, "plain", func() { dst.Plain = fromFlags.Plain })
	copyIfChanged(cmd, "quiet", func() { dst.Quiet = fromFlags.Quiet })
	copyIfChanged(cmd, "verbose", func() { dst.Verbose = fromFlags.Verbose })
	copyIfChanged(cmd, "profile", func() { dst.Profile = fromFlags.Profile })
	copyIfChanged(cmd, "config", func() { dst.Config = fromFlags.Config })
	copyIfChanged(cmd, "locale", func() { dst.Locale = fromFlags.Locale })
	copyIfChanged(cmd, "tz", func() { dst.TZ = fromFlags.TZ })
	copyIfChanged(cmd, "state", func() { dst.State = fromFlags.State })
	copyIfChanged(cmd, "state-path", func() { dst.StatePath = fromFlags.StatePath })
	copyIfChanged(cmd, "attach", func() { dst.Attach = fromFlags.Attach })
	copyIfChanged(cmd, "log-level", func() { dst.LogLevel = fromFlags.LogLevel })
	copyIfChanged(cmd, "log-format", func() { dst.LogFormat = fromFlags.LogFormat })
	copyIfChanged(cmd, "log-file", func() { dst.LogFile = fromFlags.LogFile })
	copyIfChanged(cmd, "schema-version", func() { dst.SchemaVersion = fromFlags.SchemaVersion })

	// A single explicit output mode flag overrides env/config output mode.
	jsonSet := flagValueChanged(cmd, "json") && fromFlags.JSON
	plainSet := flagValueChanged(cmd, "plain") && fromFlags.Plain
	if jsonSet != plainSet {
		dst.JSON, dst.Plain = jsonSet, plainSet
	}
}

func copyIfChanged(cmd *cobra.Command, name string, fn func()) {
	if flagValueChanged(cmd, name) {
		fn()
	}
}

func flagValueChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

func readConfigFile(path string) (fileConfig, bool) {
	if strings.TrimSpace(path) == "" {
		return fileConfig{}, false
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, false
	}
	var cfg fileConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return fileConfig{}, false
	}
	return cfg, true
}

func defaultUserConfigPath() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "stenotime", "config.toml")
	}
	home := strings.TrimSpace(os.Getenv("HOME"))
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "stenotime", "config.toml")
}

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
