// Package config charge la configuration: valeurs par défaut, fichier YAML
// optionnel, variables CHATVENDAS_* puis flags, dans cet ordre de priorité
// croissante.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix préfixe des variables d'environnement
const EnvPrefix = "CHATVENDAS_"

// DefaultFile fichier cherché dans le répertoire courant
const DefaultFile = "chatvendas.yaml"

// Config configuration complète
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Sources  SourcesConfig  `koanf:"sources"`
	Export   ExportConfig   `koanf:"export"`
	Charts   ChartsConfig   `koanf:"charts"`
	Cache    CacheConfig    `koanf:"cache"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Log      LogConfig      `koanf:"log"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

type SourcesConfig struct {
	Products string `koanf:"products"`
	Vendors  string `koanf:"vendors"`
	Sales    string `koanf:"sales"`
}

type ExportConfig struct {
	Dir     string   `koanf:"dir"`
	Enabled bool     `koanf:"enabled"`
	Formats []string `koanf:"formats"`
}

type ChartsConfig struct {
	Dir string `koanf:"dir"`
}

type CacheConfig struct {
	TTL    time.Duration `koanf:"ttl"`
	Shards int           `koanf:"shards"`
}

type IngestConfig struct {
	Workers int `koanf:"workers"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Defaults valeurs par défaut, clés plates
func Defaults() map[string]any {
	return map[string]any{
		"http.addr":        ":8080",
		"database.driver":  "sqlite",
		"database.dsn":     "",
		"sources.products": "data/produtos.csv",
		"sources.vendors":  "data/vendedores.csv",
		"sources.sales":    "data/vendas.csv",
		"export.dir":       "data/limpos",
		"export.enabled":   true,
		"export.formats":   []string{"csv", "xlsx", "parquet"},
		"charts.dir":       "static/charts",
		"cache.ttl":        "5m",
		"cache.shards":     16,
		"ingest.workers":   3,
		"log.level":        "info",
		"log.format":       "text",
	}
}

// Load charge la configuration
// cfgFile vide: DefaultFile s'il existe. flags peut être nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// .env optionnel, n'écrase pas l'environnement existant
	_ = godotenv.Load()

	k := koanf.New(".")
	defaults := Defaults()

	// 1. Défauts
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Fichier
	if cfgFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			cfgFile = DefaultFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environnement: CHATVENDAS_DATABASE_DSN -> database.dsn
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags explicitement fournis: --database-dsn -> database.dsn
	// Les flags propres à une commande (--demo, --json) sont ignorés.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key := strings.ReplaceAll(f.Name, "-", ".")
			if _, known := defaults[key]; !known || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate vérifie les valeurs qui ne peuvent pas être corrigées silencieusement
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "sqlite", "sqlite3", "postgres", "pgx":
	default:
		errs = append(errs, fmt.Errorf("database.driver: unsupported %q", c.Database.Driver))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache.ttl: must not be negative"))
	}
	if n := c.Cache.Shards; n <= 0 || n&(n-1) != 0 {
		errs = append(errs, fmt.Errorf("cache.shards: %d is not a power of 2", n))
	}
	if c.Ingest.Workers < 0 {
		errs = append(errs, errors.New("ingest.workers: must not be negative"))
	}
	if c.Export.Enabled && c.Export.Dir == "" {
		errs = append(errs, errors.New("export.dir: required when export is enabled"))
	}
	return errors.Join(errs...)
}

// RegisterFlags déclare les flags communs aux commandes
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http-addr", "", "adresse d'écoute HTTP")
	fs.String("database-driver", "", "driver: sqlite, postgres ou pgx")
	fs.String("database-dsn", "", "chaîne de connexion")
	fs.String("sources-products", "", "fichier produtos (.csv ou .xlsx)")
	fs.String("sources-vendors", "", "fichier vendedores (.csv ou .xlsx)")
	fs.String("sources-sales", "", "fichier vendas (.csv ou .xlsx)")
	fs.String("export-dir", "", "répertoire des tables nettoyées")
	fs.Bool("export-enabled", true, "exporter les tables nettoyées")
	fs.String("log-level", "", "debug, info, warn ou error")
	fs.String("log-format", "", "text ou json")
}
