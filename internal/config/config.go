package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Postgres
	HTTPServer
	Auth
}

type Postgres struct {
	User string `env:"POSTGRES_USER" env-default:"postgres"`
	Pass string `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	Host string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port string `env:"POSTGRES_PORT" env-default:"5432"`
	DB   string `env:"POSTGRES_DB" env-default:"campfire"`
	SSL  string `env:"POSTGRES_SSLMODE" env-default:"disable"`
}

type HTTPServer struct {
	Port           string   `env:"PORT" env-default:"3000"`
	ClientURL      string   `env:"CLIENT_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" env-separator:","`
	CookieDomain   string   `env:"DOMAIN"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"168h"`
}

func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Pass, p.DB, p.Port, p.SSL)
}

// Load reads an optional .env file and then the process environment.
// A missing .env file is not an error; JWT_SECRET is the only hard
// requirement.
func Load() (*Config, error) {
	_ = godotenv.Load()

	conf := &Config{}

	if err := cleanenv.ReadEnv(conf); err != nil {
		return nil, fmt.Errorf("cleanenv.ReadEnv: %w", err)
	}

	return conf, nil
}
