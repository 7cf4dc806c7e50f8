package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.mongodb.org/mongo-driver/mongo"
)

// Config holds everything the handlers need: parsed environment plus the
// live Mongo client, passed by pointer into every controller constructor.
type Config struct {
	GuildID      string `env:"DISCORD_GUILD_ID,required,notEmpty"`
	ClientID     string `env:"DISCORD_CLIENT_ID,required,notEmpty"`
	ClientSecret string `env:"DISCORD_CLIENT_SECRET,required,notEmpty"`
	AdminRoleID  string `env:"DISCORD_ADMIN_ROLE_ID,required,notEmpty"`
	RedirectURI  string `env:"DISCORD_REDIRECT_URI,required,notEmpty"`

	MongoURI string `env:"MONGO_URI,required,notEmpty"`
	DBName   string `env:"MONGO_DB" envDefault:"jutlandia"`

	// No default on purpose: the site must not start with a guessable
	// session secret.
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`

	Port string `env:"PORT" envDefault:"8080"`

	MongoClient *mongo.Client `env:"-"`
}

// Load parses configuration from the environment. Call godotenv first if a
// .env file should be considered.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
