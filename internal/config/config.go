package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/yizeng/gab/gin/lotto/internal/domain"
)

const envPrefix = "LOTTO"

type AppConfig struct {
	API   *APIConfig   `mapstructure:"api"`
	Gin   *GinConfig   `mapstructure:"gin"`
	Lotto *LottoConfig `mapstructure:"lotto"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type LottoConfig struct {
	UnitPrice         int `mapstructure:"unit_price"`
	MinNumber         int `mapstructure:"min_number"`
	MaxNumber         int `mapstructure:"max_number"`
	NumberLength      int `mapstructure:"number_length"`
	BonusNumberLength int `mapstructure:"bonus_number_length"`
	MaxTickets        int `mapstructure:"max_tickets"`
}

func (c *LottoConfig) Rules() domain.Rules {
	return domain.Rules{
		UnitPrice:         c.UnitPrice,
		MinNumber:         c.MinNumber,
		MaxNumber:         c.MaxNumber,
		NumberLength:      c.NumberLength,
		BonusNumberLength: c.BonusNumberLength,
	}
}

// Load reads the config file at path. Values can be overridden by env vars
// prefixed with LOTTO_, e.g. LOTTO_API_PORT.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

// Watch reloads the config file whenever it changes and hands the new
// config to onChange. Invalid files are reported through onErr.
func Watch(path string, onChange func(*AppConfig), onErr func(error)) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		onErr(fmt.Errorf("v.ReadInConfig -> %w", err))
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		conf, err := decode(v)
		if err != nil {
			onErr(fmt.Errorf("config %s changed -> %w", e.Name, err))
			return
		}
		onChange(conf)
	})
	v.WatchConfig()
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.token_ttl", 24*time.Hour)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("lotto.unit_price", domain.DefaultUnitPrice)
	v.SetDefault("lotto.min_number", domain.DefaultMinNumber)
	v.SetDefault("lotto.max_number", domain.DefaultMaxNumber)
	v.SetDefault("lotto.number_length", domain.DefaultNumberLength)
	v.SetDefault("lotto.bonus_number_length", domain.DefaultBonusNumberLength)
	v.SetDefault("lotto.max_tickets", 1000)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API.JWTSigningKey == "" {
		return nil, fmt.Errorf("api.jwt_signing_key is required")
	}

	if err := conf.Lotto.Rules().Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}
