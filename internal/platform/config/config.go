package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath は CONFIG_PATH もフラグも指定されない場合に読み込む設定ファイルです。
	DefaultPath = "assets/local.yaml"

	defaultHTTPReadTimeout     = 10 * time.Second
	defaultHTTPWriteTimeout    = 30 * time.Second
	defaultHTTPShutdownTimeout = 15 * time.Second
	defaultHTTPMaxBodyBytes    = 4 << 20
	defaultKafkaTopic          = "company-events"
	defaultLogLevel            = "info"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig は gRPC サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// HTTPConfig は REST API を公開する HTTP サーバーの設定です。
type HTTPConfig struct {
	ListenAddr         string        `yaml:"listen_addr"`
	MaxBodyBytes       int64         `yaml:"max_body_bytes"`
	ReadTimeout        time.Duration `yaml:"-"`
	WriteTimeout       time.Duration `yaml:"-"`
	ShutdownTimeout    time.Duration `yaml:"-"`
	ReadTimeoutRaw     string        `yaml:"read_timeout"`
	WriteTimeoutRaw    string        `yaml:"write_timeout"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	User               string        `yaml:"user"`
	Password           string        `yaml:"password"`
	Name               string        `yaml:"name"`
	SSLMode            string        `yaml:"ssl_mode"`
	IsolationLevel     string        `yaml:"isolation_level"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
}

// KafkaConfig は会社イベントの発行先です。Enabled が false の場合は発行しません。
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ResolvePath はフラグ、環境変数 CONFIG_PATH、既定値の順に設定ファイルのパスを決定します。
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return DefaultPath
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	if err := c.HTTP.validateAndNormalize(); err != nil {
		return err
	}

	db := &c.Database
	if err := db.validateAndNormalize(); err != nil {
		return err
	}

	if err := c.Kafka.validateAndNormalize(); err != nil {
		return err
	}

	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}

	return nil
}

func (h *HTTPConfig) validateAndNormalize() error {
	if h.ListenAddr == "" {
		return fmt.Errorf("config: http.listen_addr must be set")
	}
	if h.MaxBodyBytes < 0 {
		return fmt.Errorf("config: http.max_body_bytes must not be negative")
	}
	if h.MaxBodyBytes == 0 {
		h.MaxBodyBytes = defaultHTTPMaxBodyBytes
	}

	var err error
	if h.ReadTimeout, err = parseDurationOrDefault(h.ReadTimeoutRaw, defaultHTTPReadTimeout); err != nil {
		return fmt.Errorf("config: http.read_timeout: %w", err)
	}
	if h.WriteTimeout, err = parseDurationOrDefault(h.WriteTimeoutRaw, defaultHTTPWriteTimeout); err != nil {
		return fmt.Errorf("config: http.write_timeout: %w", err)
	}
	if h.ShutdownTimeout, err = parseDurationOrDefault(h.ShutdownTimeoutRaw, defaultHTTPShutdownTimeout); err != nil {
		return fmt.Errorf("config: http.shutdown_timeout: %w", err)
	}
	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}

	switch level := strings.ToLower(strings.TrimSpace(d.IsolationLevel)); level {
	case "":
		d.IsolationLevel = "read committed"
	case "read committed", "repeatable read", "serializable":
		d.IsolationLevel = level
	default:
		return fmt.Errorf("config: database.isolation_level %q is not supported", d.IsolationLevel)
	}

	lifetime, err := parseDurationOrDefault(d.ConnMaxLifetimeRaw, 0)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationOrDefault(d.ConnMaxIdleTimeRaw, 0)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	return nil
}

func (k *KafkaConfig) validateAndNormalize() error {
	if !k.Enabled {
		return nil
	}

	brokers := make([]string, 0, len(k.Brokers))
	for _, b := range k.Brokers {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must be set when kafka is enabled")
	}
	k.Brokers = brokers

	if k.Topic == "" {
		k.Topic = defaultKafkaTopic
	}
	return nil
}

func parseDurationOrDefault(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
