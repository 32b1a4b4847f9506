package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultBaseURL is where the detection dashboard is served during demos
const DefaultBaseURL = "http://localhost:3000"

// Config holds all demo configuration
type Config struct {
	Version  int            `toml:"version"`
	BaseURL  string         `toml:"base_url"`
	Browser  BrowserConfig  `toml:"browser"`
	Timing   TimingConfig   `toml:"timing"`
	Headless HeadlessConfig `toml:"headless"`
	Stealth  StealthConfig  `toml:"stealth"`
	Form     FormConfig     `toml:"form"`
	Audit    AuditConfig    `toml:"audit"`
	Schedule ScheduleConfig `toml:"schedule"`
	Logging  LoggingConfig  `toml:"logging"`
}

type BrowserConfig struct {
	ExecPath     string `toml:"exec_path"`
	WindowWidth  int    `toml:"window_width"`
	WindowHeight int    `toml:"window_height"`
	NoSandbox    bool   `toml:"no_sandbox"`
}

// TimingConfig holds the fixed waits between scripted steps.
// Durations are toml strings such as "4s".
type TimingConfig struct {
	ScenarioTimeout Duration `toml:"scenario_timeout"`
	PageSettle      Duration `toml:"page_settle"`
	AppMount        Duration `toml:"app_mount"`
	ScrollSettle    Duration `toml:"scroll_settle"`
	NavClickTimeout Duration `toml:"nav_click_timeout"`
	FormRender      Duration `toml:"form_render"`
	FormWait        Duration `toml:"form_wait"`
	ResultWait      Duration `toml:"result_wait"`
}

type HeadlessConfig struct {
	ScreenshotPath string `toml:"screenshot_path"`
}

type StealthConfig struct {
	UserAgent string `toml:"user_agent"`
}

type FormConfig struct {
	Name    string `toml:"name"`
	Email   string `toml:"email"`
	Message string `toml:"message"`
}

type AuditConfig struct {
	URL string `toml:"url"`
}

type ScheduleConfig struct {
	Cron     string `toml:"cron"`
	Timezone string `toml:"timezone"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

// Duration wraps time.Duration so it reads and writes as a string in toml
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func seconds(n float64) Duration {
	return Duration{time.Duration(n * float64(time.Second))}
}

// Default returns a Config with the values the demo script was written against
func Default() *Config {
	return &Config{
		Version: 1,
		BaseURL: DefaultBaseURL,
		Browser: BrowserConfig{
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
		Timing: TimingConfig{
			ScenarioTimeout: Duration{5 * time.Minute},
			PageSettle:      seconds(4),
			AppMount:        seconds(3),
			ScrollSettle:    seconds(2),
			NavClickTimeout: seconds(5),
			FormRender:      seconds(2),
			FormWait:        seconds(10),
			ResultWait:      seconds(3),
		},
		Headless: HeadlessConfig{
			ScreenshotPath: "headless_proof.png",
		},
		Stealth: StealthConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Form: FormConfig{
			Name:    "Botty McBotface",
			Email:   "bot@example.com",
			Message: "I am filling this form faster than any human possibly could.",
		},
		Audit: AuditConfig{
			URL: "https://bot.sannysoft.com",
		},
		Schedule: ScheduleConfig{
			Cron:     "*/5 * * * *",
			Timezone: "Local",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "blade-demo"), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads config from the default path
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads config from path. Keys missing from the file keep their
// default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads config from path. An empty path means the default
// path, where a missing file (or no config dir at all) yields the defaults.
// A missing file at an explicit path is an error.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	if _, err := ConfigDir(); err != nil {
		return Default(), nil
	}
	cfg, err := Load()
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes config to path, creating parent directories
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
