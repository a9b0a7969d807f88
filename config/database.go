package config

import "time"

const defaultLocalCacheTTL = time.Minute

// DBConfig is the Postgres database holding preferences and saved queries.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"runconsole"`
	Password string `env:"PASSWORD" envDefault:"runconsole"`
	Name     string `env:"NAME"     envDefault:"runconsole"`
	// SSLMode is passed through as libpq sslmode; use "require" outside local dev.
	SSLMode string `env:"SSL_MODE" envDefault:"disable"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS"     envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS"     envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME"  envDefault:"5m"`

	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// Sanitize keeps the idle pool no larger than the open pool.
func (d *DBConfig) Sanitize() {
	if d.MaxOpenConns < 0 {
		d.MaxOpenConns = 0
	}
	if d.MaxOpenConns > 0 && d.MaxIdleConns > d.MaxOpenConns {
		d.MaxIdleConns = d.MaxOpenConns
	}
	if d.ConnMaxLifetime < 0 {
		d.ConnMaxLifetime = 0
	}
}

// RedisConfig contains Redis configuration for the session store.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelPort       string   `env:"SENTINEL_PORT"        envDefault:"26379"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
	// KeyPrefix namespaces session keys when the Redis instance is shared.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"runconsole:"`
	// LocalCacheSize bounds the in-process tier in front of the Redis cache; 0 disables it.
	LocalCacheSize int           `env:"LOCAL_CACHE_SIZE" envDefault:"512"`
	LocalCacheTTL  time.Duration `env:"LOCAL_CACHE_TTL"  envDefault:"1m"`
}

// Sanitize clamps the local cache settings.
func (r *RedisConfig) Sanitize() {
	if r.LocalCacheSize < 0 {
		r.LocalCacheSize = 0
	}
	if r.LocalCacheTTL <= 0 {
		r.LocalCacheTTL = defaultLocalCacheTTL
	}
}
