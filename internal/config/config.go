package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type LiveKit struct {
	// API key/secret sign credentials; the URL is what browser clients
	// connect to. All three are required for issuance and room listing.
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	URL       string `mapstructure:"url"`
}

type Providers struct {
	PumpFunURL     string        `mapstructure:"pumpfun_url"`
	DexScreenerURL string        `mapstructure:"dexscreener_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ResolveTTL     time.Duration `mapstructure:"resolve_ttl"`
	MetadataTTL    time.Duration `mapstructure:"metadata_ttl"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	Secret     string        `mapstructure:"secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	LiveKit    LiveKit       `mapstructure:"livekit"`
	Providers  Providers     `mapstructure:"providers"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("token_ttl", "6h")
	v.SetDefault("providers.pumpfun_url", "https://frontend-api-v3.pump.fun")
	v.SetDefault("providers.dexscreener_url", "https://api.dexscreener.com")
	v.SetDefault("providers.timeout", "10s")
	v.SetDefault("providers.resolve_ttl", "60s")
	v.SetDefault("providers.metadata_ttl", "5m")

	// Secrets come from the environment, never the config file.
	_ = v.BindEnv("livekit.api_key", "LIVEKIT_API_KEY")
	_ = v.BindEnv("livekit.api_secret", "LIVEKIT_API_SECRET")
	_ = v.BindEnv("livekit.url", "LIVEKIT_URL")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Static: %s\n", cfg.Mode, cfg.Port, cfg.StaticPath)
	return &cfg, nil
}
