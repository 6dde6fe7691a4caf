package shared

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./promoqa.db"
	} `yaml:"database"`

	Server struct {
		Addr           string   `yaml:"addr"`            // ":8080"
		SessionHours   int      `yaml:"session_hours"`   // 12
		AllowedOrigins []string `yaml:"allowed_origins"` // ["*"]
	} `yaml:"server"`

	QA struct {
		RulePacks      []string `yaml:"rule_packs"`      // extra YAML rule tables
		DefaultChannel string   `yaml:"default_channel"` // "Email"
	} `yaml:"qa"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./promoqa.db"
	c.Server.Addr = ":8080"
	c.Server.SessionHours = 12
	c.QA.DefaultChannel = "Email"
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("PROMOQA_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("PROMOQA_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PROMOQA_SESSION_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.SessionHours = n
		}
	}
	if v := os.Getenv("PROMOQA_DEFAULT_CHANNEL"); v != "" {
		c.QA.DefaultChannel = v
	}
	if v := os.Getenv("PROMOQA_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("PROMOQA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PROMOQA_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	return c, nil
}
