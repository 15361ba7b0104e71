package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Auth   AuthConfig
	Import ImportConfig
	Backup BackupConfig
	Sentry SentryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	PhoneRegion string // región por defecto para enlaces de seguimiento
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host     string
	Port     int
	SyncPort int // websocket de sincronización + /metrics
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SyncAddr dirección del servidor de sincronización.
func (c HTTPConfig) SyncAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.SyncPort)
}

// StoreConfig selecciona el almacén clave-valor.
type StoreConfig struct {
	Driver     string // memory, sqlite, postgres, redis
	SQLitePath string
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

// RedisConfig conexión a Redis (REDIS_URL, p. ej. redis://localhost:6379/0).
type RedisConfig struct {
	URL string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Credential par de credenciales estático.
type Credential struct {
	ID       string
	Password string
	Name     string
}

// AuthConfig credenciales de administrador y asociado.
type AuthConfig struct {
	Admin    Credential
	Employee Credential
}

// ImportConfig política de importación masiva.
type ImportConfig struct {
	DefaultStatus       string // Open o WIP
	StrictMobileHeaders bool
}

// BackupConfig respaldo programado a S3. Vacío = deshabilitado.
type BackupConfig struct {
	Cron      string
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled indica si hay programación y bucket.
func (c BackupConfig) Enabled() bool { return c.Cron != "" && c.Bucket != "" }

// SentryConfig reporte de errores.
type SentryConfig struct {
	DSN string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
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
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "conversion-pro"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			PhoneRegion: getString(v, "PHONE_REGION", "IN"),
		},
		HTTP: HTTPConfig{
			Host:     getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:     getInt(v, "HTTP_PORT", 8080),
			SyncPort: getInt(v, "SYNC_PORT", 8081),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getString(v, "STORE_DRIVER", "sqlite")),
			SQLitePath: getString(v, "SQLITE_PATH", "conversion-pro.db"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "conversion_pro"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL: getString(v, "REDIS_URL", "redis://localhost:6379/0"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "conversion-pro"),
		},
		Auth: AuthConfig{
			Admin: Credential{
				ID:       getString(v, "AUTH_ADMIN_ID", "30530"),
				Password: getString(v, "AUTH_ADMIN_PASSWORD", "4321"),
				Name:     getString(v, "AUTH_ADMIN_NAME", "Super Admin"),
			},
			Employee: Credential{
				ID:       getString(v, "AUTH_EMPLOYEE_ID", "1234"),
				Password: getString(v, "AUTH_EMPLOYEE_PASSWORD", "1234"),
				Name:     getString(v, "AUTH_EMPLOYEE_NAME", "Sales Associate"),
			},
		},
		Import: ImportConfig{
			DefaultStatus:       getString(v, "IMPORT_DEFAULT_STATUS", "Open"),
			StrictMobileHeaders: getBool(v, "IMPORT_STRICT_MOBILE_HEADERS", false),
		},
		Backup: BackupConfig{
			Cron:      getString(v, "BACKUP_CRON", ""),
			Bucket:    getString(v, "S3_BUCKET", ""),
			Region:    getString(v, "S3_REGION", "us-east-1"),
			Endpoint:  getString(v, "S3_ENDPOINT", ""),
			AccessKey: getString(v, "S3_ACCESS_KEY", ""),
			SecretKey: getString(v, "S3_SECRET_KEY", ""),
		},
		Sentry: SentryConfig{
			DSN: getString(v, "SENTRY_DSN", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("config: STORE_DRIVER %q no soportado", c.Store.Driver)
	}
	switch c.Import.DefaultStatus {
	case "Open", "WIP":
	default:
		return fmt.Errorf("config: IMPORT_DEFAULT_STATUS debe ser Open o WIP, no %q", c.Import.DefaultStatus)
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

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
