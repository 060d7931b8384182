package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all server configuration, read once at startup. The port is
// fixed: a bind conflict fails startup instead of probing other ports.
type Config struct {
	Port        string
	APIKey      string
	BaseURL     string
	VisionModel string
	MockVision  bool
	Debug       bool
}

// Load reads configuration from the environment, loading .env first when
// one is present. A missing API key is not fatal here; the gateway degrades
// to configuration errors on analyze calls.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	cfg := &Config{
		Port:        getenv("PORT", "3001"),
		APIKey:      os.Getenv("DASHSCOPE_API_KEY"),
		BaseURL:     getenv("DASHSCOPE_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		VisionModel: getenv("VISION_MODEL", "qwen-vl-plus"),
		MockVision:  os.Getenv("VISION_MOCK") == "true",
		Debug:       os.Getenv("DEBUG") == "true",
	}

	if cfg.APIKey == "" || cfg.APIKey == "placeholder" {
		log.Println("DASHSCOPE_API_KEY is not set; analyze calls will return a configuration error")
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
