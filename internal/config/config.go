package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "config/local.yml"

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Storage    `yaml:"storage"`
	Database   `yaml:"database"`
	Mongo      `yaml:"mongo"`
	Tracking   `yaml:"tracking"`
	Analytics  `yaml:"analytics"`
	Auth       `yaml:"auth"`
	UserAgent  `yaml:"user_agent"`
	Page       Page `yaml:"page"`
}

// HTTPServer holds HTTP listener configuration.
type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Storage selects the event log backend: postgres, mongo or memory.
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"linkbio"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// Mongo holds MongoDB connection settings.
type Mongo struct {
	URI        string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database   string `yaml:"database" env:"MONGO_DB" env-default:"linkbio"`
	Collection string `yaml:"collection" env:"MONGO_COLLECTION" env-default:"tracked_events"`
}

// Tracking holds attribution, session and data layer settings.
type Tracking struct {
	Namespace            string   `yaml:"namespace" env:"TRACKING_NAMESPACE" env-default:"gwf.linkbio"`
	AttributionCookie    string   `yaml:"attribution_cookie" env:"TRACKING_ATTRIBUTION_COOKIE" env-default:"gwf_utm"`
	RetentionDays        int      `yaml:"retention_days" env:"TRACKING_RETENTION_DAYS" env-default:"90"`
	SessionKey           string   `yaml:"session_key" env:"TRACKING_SESSION_KEY" env-default:"gwf_session"`
	SessionIDPrefix      string   `yaml:"session_id_prefix" env:"TRACKING_SESSION_ID_PREFIX" env-default:"gwf_session_"`
	AccountParam         string   `yaml:"account_param" env:"TRACKING_ACCOUNT_PARAM" env-default:"gads_account"`
	CookieDomain         string   `yaml:"cookie_domain" env:"TRACKING_COOKIE_DOMAIN"`
	CookiePath           string   `yaml:"cookie_path" env:"TRACKING_COOKIE_PATH" env-default:"/"`
	SameSite             string   `yaml:"same_site" env:"TRACKING_SAME_SITE" env-default:"Lax"`
	InternalMediums      []string `yaml:"internal_mediums" env:"TRACKING_INTERNAL_MEDIUMS" env-separator:"," env-default:"internal,banner"`
	InternalSources      []string `yaml:"internal_sources" env:"TRACKING_INTERNAL_SOURCES" env-separator:"," env-default:"site,email_interno"`
	ForeignClientCookie  string   `yaml:"foreign_client_cookie" env:"TRACKING_FOREIGN_CLIENT_COOKIE" env-default:"_ga"`
	ForeignSessionPrefix string   `yaml:"foreign_session_prefix" env:"TRACKING_FOREIGN_SESSION_PREFIX" env-default:"_ga_"`
	TrustedProxies       []string `yaml:"trusted_proxies" env:"TRACKING_TRUSTED_PROXIES" env-separator:","`
}

// Analytics holds the async event log processor settings.
type Analytics struct {
	WorkerCount     int           `yaml:"worker_count" env:"ANALYTICS_WORKERS" env-default:"3"`
	BufferSize      int           `yaml:"buffer_size" env:"ANALYTICS_BUFFER_SIZE" env-default:"1000"`
	RetryAttempts   int           `yaml:"retry_attempts" env:"ANALYTICS_RETRY_ATTEMPTS" env-default:"3"`
	RetryDelay      time.Duration `yaml:"retry_delay" env:"ANALYTICS_RETRY_DELAY" env-default:"1s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"ANALYTICS_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// Auth holds reporting API credentials.
type Auth struct {
	JWTSecret         string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
	Issuer            string        `yaml:"issuer" env:"AUTH_ISSUER" env-default:"LinkBio-Backend"`
	AccessTokenTTL    time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
	AdminUsername     string        `yaml:"admin_username" env:"AUTH_ADMIN_USERNAME" env-default:"admin"`
	AdminPasswordHash string        `yaml:"admin_password_hash" env:"AUTH_ADMIN_PASSWORD_HASH"`
}

// UserAgent holds the uap-go regexes location.
type UserAgent struct {
	RegexesPath string `yaml:"regexes_path" env:"UA_REGEXES_PATH" env-default:"assets/regexes.yaml"`
}

// Page describes the landing page content.
type Page struct {
	Title        string      `yaml:"title" env:"PAGE_TITLE" env-default:"Link Bio"`
	EcommerceURL string      `yaml:"ecommerce_url" env:"PAGE_ECOMMERCE_URL"`
	Stores       []Store     `yaml:"stores"`
	Socials      []Social    `yaml:"socials"`
	Shelf        []ShelfItem `yaml:"shelf"`
}

// Store is a physical location shown on the page.
type Store struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	WhatsappURL string `yaml:"whatsapp_url"`
	MapsURL     string `yaml:"maps_url"`
	WazeURL     string `yaml:"waze_url"`
}

// Social is a social network link.
type Social struct {
	Network string `yaml:"network"`
	URL     string `yaml:"url"`
}

// ShelfItem is a product shown in the page carousel.
type ShelfItem struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	URL      string  `yaml:"url"`
	ImageURL string  `yaml:"image_url"`
}

// DefaultStores are used when the config file declares none.
func DefaultStores() []Store {
	return []Store{
		{ID: "store1", Name: "Vila Prel"},
		{ID: "store2", Name: "Capão Redondo"},
	}
}

// Load reads configuration from the given YAML file, or from the environment
// only when path is empty or does not exist.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return nil, fmt.Errorf("cannot read config %s: %w", path, err)
			}
			cfg.applyDefaults()
			return &cfg, nil
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from environment: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// MustLoad loads the application configuration.
func MustLoad(path string) *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot load config: %s", err)
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Page.Stores) == 0 {
		c.Page.Stores = DefaultStores()
	}
}
