package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Backend  BackendConfig
	Session  SessionConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Tracing  TracingConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig apunta al backend REST de inventario (colaborador externo).
type BackendConfig struct {
	BaseURL        string // ej. http://localhost:3000/api
	TimeoutSeconds int
	// PriceByPresentation consulta /precios/:presentation_id en lugar de /precios/:product_id/:presentation_id.
	PriceByPresentation bool
}

// Timeout devuelve el timeout de red como time.Duration.
func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionConfig almacén de sesiones de login.
type SessionConfig struct {
	Store        string // memory | redis | postgres
	TTLMinutes   int
	SweepMinutes int // cada cuánto se liberan sesiones vencidas y sus terminales
}

// TTL devuelve la vigencia por defecto de una sesión.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SweepInterval devuelve el intervalo de limpieza de sesiones vencidas.
func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepMinutes) * time.Minute
}

// RedisConfig conexión a Redis (solo si Session.Store == "redis").
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PostgresConfig conexión a PostgreSQL (solo si Session.Store == "postgres").
type PostgresConfig struct {
	DatabaseURL string
}

// TracingConfig exportación de trazas OpenTelemetry. Endpoint vacío = trazas deshabilitadas.
type TracingConfig struct {
	JaegerEndpoint string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_URL, SESSION_STORE, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-ventas"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Backend: BackendConfig{
			BaseURL:             strings.TrimRight(getString(v, "BACKEND_URL", "http://localhost:3000/api"), "/"),
			TimeoutSeconds:      getInt(v, "BACKEND_TIMEOUT_SECONDS", 15),
			PriceByPresentation: getBool(v, "BACKEND_PRICE_BY_PRESENTATION", false),
		},
		Session: SessionConfig{
			Store:        getString(v, "SESSION_STORE", "memory"),
			TTLMinutes:   getInt(v, "SESSION_TTL_MINUTES", 480),
			SweepMinutes: getInt(v, "SESSION_SWEEP_MINUTES", 5),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
		},
		Tracing: TracingConfig{
			JaegerEndpoint: getString(v, "JAEGER_ENDPOINT", ""),
		},
	}

	if cfg.Backend.BaseURL == "" {
		return nil, fmt.Errorf("config: BACKEND_URL vacío")
	}
	if cfg.Session.SweepMinutes <= 0 {
		return nil, fmt.Errorf("config: SESSION_SWEEP_MINUTES debe ser mayor que 0")
	}
	switch cfg.Session.Store {
	case "memory", "redis":
	case "postgres":
		if cfg.Postgres.DatabaseURL == "" {
			return nil, fmt.Errorf("config: SESSION_STORE=postgres requiere DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("config: SESSION_STORE inválido %q (memory|redis|postgres)", cfg.Session.Store)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
