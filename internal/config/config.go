package config

import (
	"strings"
	"sync/atomic"
	"time"

	"modkeeper/internal/env"

	"github.com/spf13/viper"
)

/**
 * Server configuration parameters
 * @property {string} address - TCP listening address (e.g. "127.0.0.1:8999")
 * @property {string} socket - Unix socket path, empty disables the socket listener
 * @property {string} mode - Gin mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Socket  string `mapstructure:"socket"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" logs to stderr
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Remote catalog location
 * @property {string} url - Primary ModLinks address
 * @property {string} fallback_url - Mirror tried once when the primary fails
 * @property {time.Duration} refresh_interval - Server mode refetch period, 0 disables it
 */
type CatalogConfig struct {
	Url             string        `mapstructure:"url"`
	FallbackUrl     string        `mapstructure:"fallback_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	FallbackTimeout time.Duration `mapstructure:"fallback_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

/**
 * Installation layout
 * @property {string} managed_dir - Game root directory
 * @property {string} mods_dir - Active root relative to managed_dir
 * @property {string} disabled_dir - Inactive root relative to the active root
 * @property {bool} auto_remove_deps - Remove dependencies nothing else needs on uninstall
 */
type InstallConfig struct {
	ManagedDir      string        `mapstructure:"managed_dir"`
	ModsDir         string        `mapstructure:"mods_dir"`
	DisabledDir     string        `mapstructure:"disabled_dir"`
	AutoRemoveDeps  bool          `mapstructure:"auto_remove_deps"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
}

/**
 * Runtime support package (mod loader)
 * @property {string} url - Archive extracted over the managed directory
 * @property {string} sha256 - Optional checksum of the archive
 * @property {string} version - Version recorded after install
 * @property {int} required_major - Installed major version at or above this is left alone
 * @property {string} active_file - Loader entry file while enabled
 * @property {string} shelved_file - Same file renamed while disabled
 */
type ApiConfig struct {
	Url           string `mapstructure:"url"`
	Sha256        string `mapstructure:"sha256"`
	Version       string `mapstructure:"version"`
	RequiredMajor int    `mapstructure:"required_major"`
	ActiveFile    string `mapstructure:"active_file"`
	ShelvedFile   string `mapstructure:"shelved_file"`
}

// StateConfig 已安装模组记录文件
type StateConfig struct {
	Path string `mapstructure:"path"`
}

type AppConfig struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Install InstallConfig `mapstructure:"install"`
	Api     ApiConfig     `mapstructure:"api"`
	State   StateConfig   `mapstructure:"state"`
}

const (
	DefaultCatalogUrl         = "https://raw.githubusercontent.com/Schyvun/Haiku-Modlinks/main/ModLinks.xml"
	DefaultCatalogFallbackUrl = "https://cdn.jsdelivr.net/gh/hk-modding/modlinks@latest/ModLinks.xml"
	DefaultApiUrl             = "https://github.com/Schyvun/Haiku.DebugMod/releases/download/1.0.1.0/Debug.ConfigManager.Package.zip"
)

// 当前生效的配置，重新加载时整体替换
var current atomic.Pointer[AppConfig]

var configFile string

func init() {
	current.Store(&AppConfig{})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1:8999")
	v.SetDefault("server.socket", "")
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", env.GetLogFile())
	v.SetDefault("catalog.url", DefaultCatalogUrl)
	v.SetDefault("catalog.fallback_url", DefaultCatalogFallbackUrl)
	v.SetDefault("catalog.timeout", 5*time.Second)
	v.SetDefault("catalog.fallback_timeout", 10*time.Second)
	v.SetDefault("catalog.refresh_interval", time.Hour)
	v.SetDefault("install.managed_dir", "")
	v.SetDefault("install.mods_dir", "BepInEx/plugins")
	v.SetDefault("install.disabled_dir", "../Disabled")
	v.SetDefault("install.auto_remove_deps", false)
	v.SetDefault("install.download_timeout", 10*time.Minute)
	v.SetDefault("api.url", DefaultApiUrl)
	v.SetDefault("api.sha256", "")
	v.SetDefault("api.version", "1.0.0")
	v.SetDefault("api.required_major", 1)
	v.SetDefault("api.active_file", "winhttp.dll")
	v.SetDefault("api.shelved_file", "winhttp.dll.v")
	v.SetDefault("state.path", "")
}

/**
 * Load application configuration
 * @param {string} file - Explicit config file, empty searches "modkeeper.yaml" in . and the user config dir
 * @returns {*AppConfig} Loaded configuration
 * @returns {error} Read or decode errors; a missing config file is not an error
 * @description
 * - Environment variables MODKEEPER_<SECTION>_<KEY> override file values
 */
func LoadConfig(file string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MODKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("modkeeper")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(env.GetConfigDir())
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, err
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return collectConfig(&cfg), nil
}

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.State.Path == "" {
		cfg.State.Path = env.DataDir + "/InstalledMods.json"
	}
	if cfg.Server.Socket == "" {
		cfg.Server.Socket = env.GetRunDir() + "/" + env.AppName + ".sock"
	}
	return cfg
}

/**
 * Load configuration and make it the current one
 * @param {string} file - Explicit config file or empty
 */
func Load(file string) error {
	cfg, err := LoadConfig(file)
	if err != nil {
		return err
	}
	configFile = file
	current.Store(cfg)
	return nil
}

/**
 * Re-read the config file given to Load
 * @returns {*AppConfig} New configuration, not yet current
 * @returns {error} Read or decode errors
 * @description
 * - The caller applies the result and then publishes it with SetApp,
 *   so a rejected configuration never becomes current
 */
func ReloadConfig() (*AppConfig, error) {
	return LoadConfig(configFile)
}

// SetApp 替换当前配置，已取得旧配置的读者保持一致的快照
func SetApp(cfg *AppConfig) {
	current.Store(cfg)
}

// App 返回当前配置，调用方不得修改
func App() *AppConfig {
	return current.Load()
}
