package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

type BackendConfig struct {
	// Base URLs of the two resource services, no trailing slash.
	ProductURL string `yaml:"product_url"`
	OrderURL   string `yaml:"order_url"`
	// Per-call timeout in seconds. A hung backend call surfaces as a
	// failure after this long.
	Timeout int `yaml:"timeout"`
}

type ViewConfig struct {
	// Periodic full refresh interval in seconds; 0 disables the job.
	RefreshInterval int `yaml:"refresh_interval"`
	// Backend health probe interval in seconds; 0 disables the job.
	ProbeInterval int `yaml:"probe_interval"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System  SysConfig     `yaml:"system"`
	Web     WebConfig     `yaml:"web"`
	Backend BackendConfig `yaml:"backend"`
	View    ViewConfig    `yaml:"view"`
	Logger  LoggerConfig  `yaml:"logger"`
}

func (c *AppConfig) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.Timeout) * time.Second
}

var DefaultAppConfig = AppConfig{
	System: SysConfig{
		Appid:    "storeconsole",
		Location: "Asia/Jakarta",
		Workdir:  "/var/storeconsole",
		Debug:    true,
	},
	Web: WebConfig{
		Host:         "0.0.0.0",
		Port:         9103,
		AllowOrigins: []string{"http://localhost:3000"},
	},
	Backend: BackendConfig{
		ProductURL: "http://127.0.0.1:9001",
		OrderURL:   "http://127.0.0.1:8081",
		Timeout:    10,
	},
	View: ViewConfig{
		RefreshInterval: 30,
		ProbeInterval:   30,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/storeconsole/storeconsole.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

func setEnvIntValue(name string, f func(v int)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(cast.ToInt(evalue))
	}
}

// LoadConfig reads the YAML file at cfile when it exists, falls back to the
// defaults otherwise, and applies STORECONSOLE_* environment overrides last.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = DefaultAppConfig

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("STORECONSOLE_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("STORECONSOLE_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvBoolValue("STORECONSOLE_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("STORECONSOLE_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("STORECONSOLE_WEB_PORT", func(v int) { cfg.Web.Port = v })

	setEnvValue("STORECONSOLE_BACKEND_PRODUCT_URL", func(v string) { cfg.Backend.ProductURL = v })
	setEnvValue("STORECONSOLE_BACKEND_ORDER_URL", func(v string) { cfg.Backend.OrderURL = v })
	setEnvIntValue("STORECONSOLE_BACKEND_TIMEOUT", func(v int) { cfg.Backend.Timeout = v })

	setEnvIntValue("STORECONSOLE_VIEW_REFRESH_INTERVAL", func(v int) { cfg.View.RefreshInterval = v })
	setEnvIntValue("STORECONSOLE_VIEW_PROBE_INTERVAL", func(v int) { cfg.View.ProbeInterval = v })

	setEnvValue("STORECONSOLE_LOGGER_MODE", func(v string) { cfg.Logger.Mode = v })
	setEnvBoolValue("STORECONSOLE_LOGGER_FILE_ENABLE", func(v bool) { cfg.Logger.FileEnable = v })
	setEnvValue("STORECONSOLE_LOGGER_FILENAME", func(v string) { cfg.Logger.Filename = v })

	return cfg
}
