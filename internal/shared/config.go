package shared

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	DataDir    string
	SourceGlob string
	SourceURLs []string
	SourceRPS  int

	StoreBackend string // json|sqlite|mysql
	JSONPath     string
	SQLitePath   string
	MySQLDSN     string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	TaxonomyFile string
	Seed         uint64 // 0 picks a random seed per run
	LockPath     string
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that file (any format viper understands). Environment wins.
func Load() Config {
	v := viper.New()
	v.SetDefault("app_env", "prod")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("data_dir", "data")
	v.SetDefault("source_glob", "*.csv")
	v.SetDefault("source_urls", "")
	v.SetDefault("source_rps", 5)
	v.SetDefault("store_backend", "json")
	v.SetDefault("json_path", "")
	v.SetDefault("sqlite_path", "")
	v.SetDefault("mysql_dsn", "root:root@tcp(localhost:3306)/reviewwise?parseTime=true&charset=utf8mb4,utf8&loc=UTC")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("cache_ttl_seconds", 900)
	v.SetDefault("taxonomy_file", "")
	v.SetDefault("seed", 0)
	v.SetDefault("lock_path", "")
	v.AutomaticEnv()

	if f := v.GetString("config_file"); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("file", f).Msg("config file not loaded")
		}
	}

	c := Config{
		AppEnv:       v.GetString("app_env"),
		HTTPAddr:     v.GetString("http_addr"),
		MetricsAddr:  v.GetString("metrics_addr"),
		DataDir:      v.GetString("data_dir"),
		SourceGlob:   v.GetString("source_glob"),
		SourceURLs:   stringList(v.Get("source_urls")),
		SourceRPS:    v.GetInt("source_rps"),
		StoreBackend: strings.ToLower(v.GetString("store_backend")),
		JSONPath:     v.GetString("json_path"),
		SQLitePath:   v.GetString("sqlite_path"),
		MySQLDSN:     v.GetString("mysql_dsn"),
		RedisAddr:    v.GetString("redis_addr"),
		RedisDB:      v.GetInt("redis_db"),
		RedisPass:    v.GetString("redis_password"),
		CacheTTL:     time.Duration(v.GetInt("cache_ttl_seconds")) * time.Second,
		TaxonomyFile: v.GetString("taxonomy_file"),
		Seed:         v.GetUint64("seed"),
		LockPath:     v.GetString("lock_path"),
	}
	if c.JSONPath == "" {
		c.JSONPath = filepath.Join(c.DataDir, "reviews.json")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.DataDir, "reviews.db")
	}
	if c.LockPath == "" {
		c.LockPath = filepath.Join(c.DataDir, ".ingest.lock")
	}
	return c
}

// stringList accepts a comma separated string (environment) or a list (config file).
func stringList(raw any) []string {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []any:
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
	case []string:
		parts = v
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
