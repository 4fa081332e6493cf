package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string      `mapstructure:"port"`
	DatabricksHost   string      `mapstructure:"DATABRICKS_HOST"`
	DatabricksToken  string      `mapstructure:"DATABRICKS_TOKEN"`
	WorkspaceBaseDir string      `mapstructure:"workspace_base_dir"`
	WarehouseID      string      `mapstructure:"warehouse_id"`
	AI               AIConfig    `mapstructure:"ai"`
	Store            StoreConfig `mapstructure:"store"`
}

type AIConfig struct {
	Provider      string   `mapstructure:"provider"` // openai, gemini or databricks
	Model         string   `mapstructure:"model"`
	Endpoint      string   `mapstructure:"endpoint"`
	OpenAIAPIKey  string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys []string `mapstructure:"GEMINI_API_KEYS"`
	MaxDocChars   int      `mapstructure:"max_doc_chars"`
}

type StoreConfig struct {
	Backend  string `mapstructure:"backend"` // memory or mongo
	MongoURI string `mapstructure:"MONGODB_URI"`
	MaxTurns int    `mapstructure:"max_turns"` // 0 keeps conversations unbounded
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("DATABRICKS_HOST")
	v.BindEnv("DATABRICKS_TOKEN")
	v.BindEnv("ai.OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("ai.GEMINI_API_KEYS", "GEMINI_API_KEYS")
	v.BindEnv("store.MONGODB_URI", "MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.WorkspaceBaseDir == "" {
		config.WorkspaceBaseDir = "/Shared/pdf_uploads"
	}
	if config.Store.Backend == "" {
		config.Store.Backend = "memory"
	}

	return &config, nil
}
