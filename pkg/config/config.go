package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Almacenamientos soportados para el libro de movimientos.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente .env).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Session SessionConfig
	Auth    AuthConfig
	HTTP    HTTPConfig
	Org     OrgConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Storage  string // postgres | memory
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SessionConfig firma y duración del token de sesión (cookie).
type SessionConfig struct {
	Secret     string
	TTLMinutes int
	Issuer     string
	CookieName string
}

// AuthConfig credencial única del sistema.
// PasswordHash (bcrypt) tiene prioridad sobre Password en texto plano.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
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

// OrgConfig textos fijos del encabezado del relatório.
type OrgConfig struct {
	Name    string
	Address string
	City    string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, PORT, SESSION_SECRET, DB_HOST, etc.
func Load() (*Config, error) {
	// .env es opcional; las variables ya definidas en el entorno no se sobrescriben.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "estoque"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Storage:  strings.ToLower(getString(v, "STORAGE", StoragePostgres)),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "estoque"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:     getString(v, "SESSION_SECRET", "dev-secret-key"),
			TTLMinutes: getInt(v, "SESSION_TTL_MINUTES", 480),
			Issuer:     getString(v, "SESSION_ISSUER", "estoque"),
			CookieName: getString(v, "SESSION_COOKIE", "estoque_session"),
		},
		Auth: AuthConfig{
			Username:     getString(v, "AUTH_USERNAME", "admin"),
			Password:     getString(v, "AUTH_PASSWORD", "admin"),
			PasswordHash: getString(v, "AUTH_PASSWORD_HASH", ""),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "PORT", 5000),
		},
		Org: OrgConfig{
			Name:    getString(v, "ORG_NAME", "JIQUIAGROPECUÁRIA"),
			Address: getString(v, "ORG_ADDRESS", "AV. PRESIDENTE VARGAS Nº 201"),
			City:    getString(v, "ORG_CITY", "JIQUIRIÇÁ - ESTADO: BAHIA"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.App.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config: STORAGE inválido %q (postgres|memory)", c.App.Storage)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("config: SESSION_SECRET vacío")
	}
	if c.Auth.Username == "" {
		return fmt.Errorf("config: AUTH_USERNAME vacío")
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return fmt.Errorf("config: se requiere AUTH_PASSWORD o AUTH_PASSWORD_HASH")
	}
	if c.Session.TTLMinutes <= 0 {
		c.Session.TTLMinutes = 480
	}
	return nil
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
			n, err := strconv.Atoi(v.GetString(key))
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
