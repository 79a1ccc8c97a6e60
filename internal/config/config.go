// internal/config/config.go
//
// Runtime configuration.
// Responsibilities:
//   - Declare every setting with its default.
//   - Merge defaults, an optional config file and the environment (viper).
//   - Configure the global zerolog logger from the result.
//
// Environment variables use the upper-case key (PORT, AI_API_KEY, ...).
// A .env file is loaded by main before any of this runs.

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Keys.
const (
	KeyPort          = "port"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyMaxRounds     = "max_rounds"
	KeyAIProvider    = "ai_provider"
	KeyAIAPIKey      = "ai_api_key"
	KeyAIBaseURL     = "ai_base_url"
	KeyAIModel       = "ai_model"
	KeyAIUseThinking = "ai_use_thinking"
	KeyAITimeout     = "ai_timeout"
	KeyKeywordsFile  = "words_keywords_file"
	KeyProvidersFile = "providers_file"
	KeyJWTSecret     = "jwt_secret"
	KeyClientOrigin  = "client_origin"
	KeySecureCookies = "secure_cookies"
)

// DefaultJWTSecret is only suitable for local development.
const DefaultJWTSecret = "dev_secret_change_me"

var defaults = map[string]any{
	KeyPort:          "5175",
	KeyLogLevel:      "info",
	KeyLogFormat:     "json",
	KeyMaxRounds:     8,
	KeyAIProvider:    "deepseek",
	KeyAIAPIKey:      "",
	KeyAIBaseURL:     "",
	KeyAIModel:       "",
	KeyAIUseThinking: false,
	KeyAITimeout:     "90s",
	KeyKeywordsFile:  "",
	KeyProvidersFile: "",
	KeyJWTSecret:     DefaultJWTSecret,
	KeyClientOrigin:  "http://localhost:5173",
	KeySecureCookies: false,
}

// Config is the resolved configuration.
type Config struct {
	Port      string
	LogLevel  string
	LogFormat string
	MaxRounds int

	AIProvider    string
	AIAPIKey      string
	AIBaseURL     string
	AIModel       string
	AIUseThinking bool
	AITimeout     time.Duration

	KeywordsFile  string
	ProvidersFile string

	JWTSecret     string
	ClientOrigin  string
	SecureCookies bool
}

// New returns a viper instance with defaults set and environment binding
// enabled.
func New() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves the configuration from v. A non-empty file is read first;
// values from the environment still take precedence over it.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return Config{}, fmt.Errorf("config file %s not found", file)
			}
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	timeout, err := parseDuration(v.GetString(KeyAITimeout))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyAITimeout, err)
	}

	c := Config{
		Port:          v.GetString(KeyPort),
		LogLevel:      v.GetString(KeyLogLevel),
		LogFormat:     v.GetString(KeyLogFormat),
		MaxRounds:     v.GetInt(KeyMaxRounds),
		AIProvider:    v.GetString(KeyAIProvider),
		AIAPIKey:      v.GetString(KeyAIAPIKey),
		AIBaseURL:     v.GetString(KeyAIBaseURL),
		AIModel:       v.GetString(KeyAIModel),
		AIUseThinking: v.GetBool(KeyAIUseThinking),
		AITimeout:     timeout,
		KeywordsFile:  v.GetString(KeyKeywordsFile),
		ProvidersFile: v.GetString(KeyProvidersFile),
		JWTSecret:     v.GetString(KeyJWTSecret),
		ClientOrigin:  v.GetString(KeyClientOrigin),
		SecureCookies: v.GetBool(KeySecureCookies),
	}
	if c.MaxRounds < 1 {
		return Config{}, fmt.Errorf("%s must be at least 1, got %d", KeyMaxRounds, c.MaxRounds)
	}
	if c.Port == "" {
		return Config{}, errors.New("port must not be empty")
	}
	return c, nil
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90").
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	var secs int
	if _, err := fmt.Sscanf(s, "%d", &secs); err == nil && fmt.Sprint(secs) == s {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}

// SetupLogging configures the global zerolog logger. format "console" selects
// the human-readable writer; anything else writes JSON lines.
func SetupLogging(c Config, w io.Writer) {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil && c.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if strings.EqualFold(c.LogFormat, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
