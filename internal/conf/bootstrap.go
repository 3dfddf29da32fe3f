// Package conf provides configuration management using Viper.
// It supports loading configuration from YAML files, a local .env file and
// environment variables, with CLI flag overrides.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/types/known/durationpb"
)

var supportedDrivers = map[string]bool{
	"mysql":    true,
	"postgres": true,
	"sqlite":   true,
}

// NewBootstrap creates and initializes a Bootstrap configuration.
// It loads configuration from the specified config file path, applies defaults,
// and allows overrides from environment variables prefixed with DONORLANE_.
//
// Configuration priority: CLI flags > Environment variables > Config file > Defaults
//
// Required environment variables:
//   - DATABASE_DSN or DONORLANE_DATA_DATABASE_SOURCE: database connection string
func NewBootstrap(configPath string) (*Bootstrap, error) {
	// .env 文件可选，不存在时直接忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DONORLANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("data.database.source", "DATABASE_DSN", "DONORLANE_DATA_DATABASE_SOURCE")
	_ = v.BindEnv("data.redis.addr", "REDIS_ADDR", "DONORLANE_DATA_REDIS_ADDR")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	bc := &Bootstrap{
		Server: &Server{
			Http: &Server_HTTP{
				Network: v.GetString("server.http.network"),
				Addr:    v.GetString("server.http.addr"),
				Timeout: durationpb.New(v.GetDuration("server.http.timeout")),
			},
			Grpc: &Server_GRPC{
				Network: v.GetString("server.grpc.network"),
				Addr:    v.GetString("server.grpc.addr"),
				Timeout: durationpb.New(v.GetDuration("server.grpc.timeout")),
			},
		},
		Data: &Data{
			Database: &Data_Database{
				Driver:       strings.ToLower(v.GetString("data.database.driver")),
				Source:       v.GetString("data.database.source"),
				MaxIdleConns: v.GetInt32("data.database.max_idle_conns"),
				MaxOpenConns: v.GetInt32("data.database.max_open_conns"),
				AutoMigrate:  v.GetBool("data.database.auto_migrate"),
			},
			Redis: &Data_Redis{
				Network:       v.GetString("data.redis.network"),
				Addr:          v.GetString("data.redis.addr"),
				Password:      v.GetString("data.redis.password"),
				Db:            v.GetInt32("data.redis.db"),
				ReadTimeout:   durationpb.New(v.GetDuration("data.redis.read_timeout")),
				WriteTimeout:  durationpb.New(v.GetDuration("data.redis.write_timeout")),
				DonorCacheTtl: durationpb.New(v.GetDuration("data.redis.donor_cache_ttl")),
			},
		},
		Audit: &Audit{
			BufferSize: v.GetInt32("audit.buffer_size"),
		},
		Jobs: &Jobs{
			BaselineSpec:    v.GetString("jobs.baseline_spec"),
			SeedOnStartup:   v.GetBool("jobs.seed_on_startup"),
			BaselineTimeout: durationpb.New(v.GetDuration("jobs.baseline_timeout")),
		},
		Log: &Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Env:        v.GetString("log.env"),
			OutputFile: v.GetString("log.output_file"),
		},
	}

	if err := Validate(bc); err != nil {
		return nil, err
	}

	return bc, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", 30*time.Second)

	v.SetDefault("server.grpc.network", "tcp")
	v.SetDefault("server.grpc.addr", ":9000")
	v.SetDefault("server.grpc.timeout", 30*time.Second)

	v.SetDefault("data.database.driver", "mysql")
	v.SetDefault("data.database.max_idle_conns", 10)
	v.SetDefault("data.database.max_open_conns", 100)
	v.SetDefault("data.database.auto_migrate", true)
	// Note: data.database.source (DATABASE_DSN) is required from environment

	v.SetDefault("data.redis.network", "tcp")
	v.SetDefault("data.redis.addr", "127.0.0.1:6379")
	v.SetDefault("data.redis.db", 0)
	v.SetDefault("data.redis.read_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.write_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.donor_cache_ttl", 5*time.Minute)

	v.SetDefault("audit.buffer_size", 1000)

	// 每天凌晨 2 点记录一次捐赠人基线
	v.SetDefault("jobs.baseline_spec", "0 0 2 * * *")
	v.SetDefault("jobs.seed_on_startup", true)
	v.SetDefault("jobs.baseline_timeout", 2*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that all required configuration fields are present and valid.
// It returns an error listing all missing or invalid fields.
func Validate(bc *Bootstrap) error {
	var missingFields []string

	if bc.Data == nil || bc.Data.Database == nil || bc.Data.Database.Source == "" {
		missingFields = append(missingFields, "data.database.source (DATABASE_DSN)")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missingFields, ", "))
	}

	if !supportedDrivers[bc.Data.Database.Driver] {
		return fmt.Errorf("unsupported database driver %q (want mysql, postgres or sqlite)", bc.Data.Database.Driver)
	}

	if bc.Audit != nil && bc.Audit.BufferSize < 0 {
		return fmt.Errorf("audit.buffer_size must not be negative, got %d", bc.Audit.BufferSize)
	}

	return nil
}
