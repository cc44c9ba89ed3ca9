package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wheelibin/hueclient/internal/constants"
	"github.com/wheelibin/hueclient/pkg/discovery"
)

const envPrefix = "HUE"

type Config struct {
	BridgeIP       string `mapstructure:"bridgeIp"`
	ApplicationKey string `mapstructure:"applicationKey"`
	DeviceType     string `mapstructure:"deviceType"`
	Discovery      struct {
		Timeout  time.Duration `mapstructure:"timeout"`
		CloudURL string        `mapstructure:"cloudUrl"`
	} `mapstructure:"discovery"`
	HTTPTimeout     time.Duration `mapstructure:"httpTimeout"`
	CommandInterval time.Duration `mapstructure:"commandInterval"`
	Link            struct {
		RetryDelay  time.Duration `mapstructure:"retryDelay"`
		MaxAttempts int           `mapstructure:"maxAttempts"`
	} `mapstructure:"link"`
	Log struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"log"`
	Journal string `mapstructure:"journal"`
}

// RegisterFlags adds the flags every binary shares to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default: hueclient.{json,yaml,toml} in /etc/hueclient, ~/.config/hueclient or .)")
	fs.String("bridge", "", "bridge address, skips discovery")
	fs.String("key", "", "application key (username) issued by the bridge")
	fs.String("log-level", "", "debug, info, warn or error")
}

var flagKeys = map[string]string{
	"bridge":    "bridgeIp",
	"key":       "applicationKey",
	"log-level": "log.level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bridgeIp", "")
	v.SetDefault("applicationKey", "")
	v.SetDefault("deviceType", constants.DefaultDeviceType)
	v.SetDefault("discovery.timeout", discovery.DefaultMDNSTimeout)
	v.SetDefault("discovery.cloudUrl", discovery.DefaultCloudURL)
	v.SetDefault("httpTimeout", constants.DefaultHTTPTimeout)
	v.SetDefault("commandInterval", constants.DefaultCommandInterval)
	v.SetDefault("link.retryDelay", constants.DefaultLinkRetryDelay)
	v.SetDefault("link.maxAttempts", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("journal", "")
}

// Load builds the configuration. Later sources win: defaults, config file, .env
// and HUE_* environment variables, then flags set on fs. A missing config file or
// .env is not an error. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := ""
	if fs != nil {
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding --%s: %w", flag, err)
				}
			}
		}
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("hueclient")
		v.AddConfigPath("/etc/hueclient/")
		v.AddConfigPath("$HOME/.config/hueclient/")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}
