package configuration

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type MongoConfig struct {
	Uri                string `json:"uri"`
	Database           string `json:"database"`
	MessagesCollection string `json:"messagesCollection"`
	UsersCollection    string `json:"usersCollection"`
	SocketRoute        string `json:"socketRoute"`
}

type ServerConfig struct {
	AppPort    int `json:"app_port"`
	SocketPort int `json:"socket_port"`
}

type Config struct {
	ChatDatabase   MongoConfig  `json:"mongo"`
	Server         ServerConfig `json:"server"`
	AllowedOrigins []string     `json:"allowed_origins"`
}

// LoadConfig reads the JSON config file. A .env file, when present, may
// override the Mongo URI so deployments keep credentials out of the file.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	err = json.Unmarshal(file, &config)
	if err != nil {
		return nil, err
	}

	if uri := os.Getenv("MONGO_URI"); uri != "" {
		config.ChatDatabase.Uri = uri
	}

	if config.ChatDatabase.Uri == "" {
		return nil, fmt.Errorf("mongo uri is not configured")
	}
	if config.ChatDatabase.SocketRoute == "" {
		config.ChatDatabase.SocketRoute = "ws"
	}

	return &config, nil
}
