package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Redis        Redis        `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	MercadoLivre MercadoLivre `mapstructure:",squash"`
	Shopee       Shopee       `mapstructure:",squash"`
	Bling        Bling        `mapstructure:",squash"`
	Sync         Sync         `mapstructure:",squash"`
	AutoSync     AutoSync     `mapstructure:",squash"`
	Coordinator  Coordinator  `mapstructure:",squash"`
	SecretKey    string       `mapstructure:"secret_key"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`
	MaxIdleConns int    `mapstructure:"database_max_idle_conns"`
}

type Redis struct {
	Addr     string `mapstructure:"redis_addr"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"app_timezone"`
}

type Auth struct {
	Secret     string `mapstructure:"auth_secret"`
	CookieName string `mapstructure:"auth_cookie_name"`
}

type MercadoLivre struct {
	BaseURL      string `mapstructure:"meli_base_url"`
	ClientID     string `mapstructure:"meli_client_id"`
	ClientSecret string `mapstructure:"meli_client_secret"`
	MaxRetries   int    `mapstructure:"meli_max_retries"`
}

type Shopee struct {
	BaseURL    string `mapstructure:"shopee_base_url"`
	PartnerID  int64  `mapstructure:"shopee_partner_id"`
	PartnerKey string `mapstructure:"shopee_partner_key"`
}

type Bling struct {
	BaseURL      string `mapstructure:"bling_base_url"`
	ClientID     string `mapstructure:"bling_client_id"`
	ClientSecret string `mapstructure:"bling_client_secret"`
}

type Sync struct {
	MaxConcurrentJobs   int           `mapstructure:"sync_max_concurrent_jobs"`
	RequestDelayMs      int           `mapstructure:"sync_request_delay_ms"`
	HistoryDays         int           `mapstructure:"sync_history_days"`
	CloseGrace          time.Duration `mapstructure:"sync_close_grace"`
	HeartbeatInterval   time.Duration `mapstructure:"sync_heartbeat_interval"`
	SubscriberBufferLen int           `mapstructure:"sync_subscriber_buffer"`
}

type AutoSync struct {
	CronSchedule string `mapstructure:"auto_sync_cron"`
	Enabled      bool   `mapstructure:"auto_sync_enabled"`
}

type Coordinator struct {
	StallTimeout time.Duration `mapstructure:"coordinator_stall_timeout"`
	GraceDelay   time.Duration `mapstructure:"coordinator_grace_delay"`
	SettleDelay  time.Duration `mapstructure:"coordinator_settle_delay"`
	BaseURL      string        `mapstructure:"coordinator_base_url"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)

	// Vazio desabilita o broker redis e mantém o progresso apenas em memória
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "") // Vazio reaproveita SECRET_KEY
	viper.SetDefault("AUTH_COOKIE_NAME", "session")

	viper.SetDefault("MELI_BASE_URL", "https://api.mercadolibre.com")
	viper.SetDefault("MELI_CLIENT_ID", "")
	viper.SetDefault("MELI_CLIENT_SECRET", "")
	viper.SetDefault("MELI_MAX_RETRIES", 3)

	viper.SetDefault("SHOPEE_BASE_URL", "https://partner.shopeemobile.com")
	viper.SetDefault("SHOPEE_PARTNER_ID", 0)
	viper.SetDefault("SHOPEE_PARTNER_KEY", "")

	viper.SetDefault("BLING_BASE_URL", "https://www.bling.com.br/Api/v3")
	viper.SetDefault("BLING_CLIENT_ID", "")
	viper.SetDefault("BLING_CLIENT_SECRET", "")

	// Defaults para sincronização de pedidos
	viper.SetDefault("SYNC_MAX_CONCURRENT_JOBS", 4)    // 4 contas sincronizando ao mesmo tempo
	viper.SetDefault("SYNC_REQUEST_DELAY_MS", 200)     // 200ms entre páginas
	viper.SetDefault("SYNC_HISTORY_DAYS", 180)         // Primeira sincronização busca 180 dias
	viper.SetDefault("SYNC_CLOSE_GRACE", "2s")         // Fecha as conexões SSE 2s após o lote
	viper.SetDefault("SYNC_HEARTBEAT_INTERVAL", "25s") // Comentário SSE para manter a conexão viva
	viper.SetDefault("SYNC_SUBSCRIBER_BUFFER", 256)    // Eventos em buffer por assinante

	viper.SetDefault("AUTO_SYNC_CRON", "*/10 * * * *") // A cada 10 minutos
	viper.SetDefault("AUTO_SYNC_ENABLED", false)

	viper.SetDefault("COORDINATOR_STALL_TIMEOUT", "10m")
	viper.SetDefault("COORDINATOR_GRACE_DELAY", "2s")
	viper.SetDefault("COORDINATOR_SETTLE_DELAY", "500ms")
	viper.SetDefault("COORDINATOR_BASE_URL", "http://localhost:8000")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if config.Auth.Secret == "" {
		config.Auth.Secret = config.SecretKey
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Location retorna o fuso horário de negócio usado para buckets mensais e períodos
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("Fuso horário inválido: %s, usando UTC", c.App.Timezone)
		return time.UTC
	}
	return loc
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
