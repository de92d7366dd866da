// Package config loads service configuration from a YAML file and
// environment variables, with struct-tag defaults as the base layer.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mcuadros/go-defaults"
	"github.com/rs/zerolog/log"
)

// envPrefix is the environment variable prefix for all settings
const envPrefix = "EVENTLENS_"

// Config holds the full service configuration
type Config struct {
	// Server holds the HTTP server settings
	Server Server `json:"server" koanf:"server"`
	// Inference holds the generative inference settings
	Inference Inference `json:"inference" koanf:"inference"`
	// Fetcher holds the headless browser settings
	Fetcher Fetcher `json:"fetcher" koanf:"fetcher"`
	// OCR holds the optional OCR sidecar settings
	OCR OCR `json:"ocr" koanf:"ocr"`
}

// Server holds the HTTP server settings
type Server struct {
	// Listen is the address the server binds to
	Listen string `json:"listen" koanf:"listen" default:":8080"`
	// Debug enables debug logging
	Debug bool `json:"debug" koanf:"debug" default:"false"`
	// Pretty enables human readable console logging
	Pretty bool `json:"pretty" koanf:"pretty" default:"false"`
	// ReadTimeout bounds reading one request
	ReadTimeout time.Duration `json:"readtimeout" koanf:"readtimeout" default:"30s"`
	// WriteTimeout bounds writing one response; inference retries with
	// backoff have to fit inside it
	WriteTimeout time.Duration `json:"writetimeout" koanf:"writetimeout" default:"5m"`
	// ShutdownGracePeriod bounds graceful shutdown
	ShutdownGracePeriod time.Duration `json:"shutdowngraceperiod" koanf:"shutdowngraceperiod" default:"10s"`
	// RequestTimeout bounds one request end to end
	RequestTimeout time.Duration `json:"requesttimeout" koanf:"requesttimeout" default:"5m"`
	// MaxBodySize caps request bodies in bytes
	MaxBodySize int64 `json:"maxbodysize" koanf:"maxbodysize" default:"26214400"`
}

// Inference holds the generative inference settings
type Inference struct {
	// APIKey authenticates against the inference service
	APIKey string `json:"apikey" koanf:"apikey" sensitive:"true" jsonschema:"required"`
	// Model is the model identifier used for all calls
	Model string `json:"model" koanf:"model" default:"gemini-2.5-flash-preview-09-2025"`
	// BaseURL is the inference API endpoint
	BaseURL string `json:"baseurl" koanf:"baseurl" default:"https://generativelanguage.googleapis.com/v1beta"`
	// MaxAttempts is the retry budget per call
	MaxAttempts int `json:"maxattempts" koanf:"maxattempts" default:"5"`
	// BackoffBase is the exponential backoff base delay
	BackoffBase time.Duration `json:"backoffbase" koanf:"backoffbase" default:"1s"`
	// CallTimeout bounds one HTTP call to the inference service
	CallTimeout time.Duration `json:"calltimeout" koanf:"calltimeout" default:"60s"`
	// OverallTimeout bounds one generation including all retries
	OverallTimeout time.Duration `json:"overalltimeout" koanf:"overalltimeout" default:"3m"`
}

// Fetcher holds the headless browser settings
type Fetcher struct {
	// LoadTimeout bounds one page load
	LoadTimeout time.Duration `json:"loadtimeout" koanf:"loadtimeout" default:"30s"`
	// SettleWait lets client-side rendering finish after load
	SettleWait time.Duration `json:"settlewait" koanf:"settlewait" default:"2s"`
	// UserAgent overrides the browser user agent when set
	UserAgent string `json:"useragent" koanf:"useragent"`
}

// OCR holds the optional OCR sidecar settings; an empty URL disables OCR
type OCR struct {
	// URL is the OCR service base URL, empty to disable
	URL string `json:"url" koanf:"url"`
	// RequestTimeout bounds one recognition call
	RequestTimeout time.Duration `json:"requesttimeout" koanf:"requesttimeout" default:"30s"`
	// Languages is the tesseract language set
	Languages string `json:"languages" koanf:"languages" default:"kor+eng"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// EVENTLENS_ environment variables, in that precedence order.
func Load(cfgPath *string) (*Config, error) {
	k := koanf.New(".")

	cfg := &Config{}
	defaults.SetDefaults(cfg)

	if cfgPath != nil && *cfgPath != "" {
		if err := k.Load(file.Provider(*cfgPath), yaml.Parser()); err != nil {
			log.Debug().Err(err).Str("path", *cfgPath).Msg("config file not loaded, using env and defaults")
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, ErrConfigUnmarshal
	}

	if strings.TrimSpace(cfg.Inference.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	return cfg, nil
}

// envToKey maps EVENTLENS_SERVER_LISTEN style variables to server.listen keys
func envToKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
}
