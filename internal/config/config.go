package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Draw     DrawConfig
	Ledger   LedgerConfig
	Admin    AdminConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// DrawConfig holds draw-cycle configuration
type DrawConfig struct {
	// WindowHours is the length of a draw window
	WindowHours int
	// UrgencyThresholdHours is how close to the deadline the countdown
	// turns urgent
	UrgencyThresholdHours int
	// TickSeconds is the interval of the draw tick loop
	TickSeconds int
}

// LedgerConfig holds slot ledger configuration
type LedgerConfig struct {
	// InitialSlots is granted on registration
	InitialSlots int
	// MinSlots is the floor a delta adjustment cannot push a participant below
	MinSlots int
	// PurchaseUnit is the purchase amount worth one bonus slot
	PurchaseUnit float64
}

// AdminConfig holds the bootstrap admin account
type AdminConfig struct {
	Email    string
	Password string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Explicit env overrides for the flat variable names used in deployment
	config.Server.Port = GetEnv("PORT", config.Server.Port)
	config.MongoDB.URI = GetEnv("MONGODB_URI", config.MongoDB.URI)
	config.MongoDB.Database = GetEnv("MONGODB_DATABASE", config.MongoDB.Database)
	config.JWT.Secret = GetEnv("JWT_SECRET", config.JWT.Secret)
	config.Admin.Email = GetEnv("ADMIN_EMAIL", config.Admin.Email)
	config.Admin.Password = GetEnv("ADMIN_PASSWORD", config.Admin.Password)
	config.Draw.TickSeconds = GetEnvAsInt("DRAW_TICK_SECONDS", config.Draw.TickSeconds)

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "giveaway")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Draw.WindowHours", 24)
	viper.SetDefault("Draw.UrgencyThresholdHours", 6)
	viper.SetDefault("Draw.TickSeconds", 5)
	viper.SetDefault("Ledger.InitialSlots", 1)
	viper.SetDefault("Ledger.MinSlots", 1)
	viper.SetDefault("Ledger.PurchaseUnit", 100)
	viper.SetDefault("LogLevel", "info")
}
