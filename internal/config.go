package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "voice-desk"
	envPrefix  = "VOICE_DESK"

	DefaultModel         = "llama3-8b-8192"
	DefaultBaseURL       = "https://api.groq.com/openai/v1"
	DefaultMongoDatabase = "medical_db"
	DefaultMenu          = "Pizza: $10, Salad: $5, Ice Cream: $3, Coffee: $2"
	DefaultMaxToolSteps  = 5
)

// Config is the full runtime configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Data     DataConfig     `mapstructure:"data"`
	MongoDB  MongoConfig    `mapstructure:"mongodb"`
	Server   ServerConfig   `mapstructure:"server"`
	Voice    VoiceConfig    `mapstructure:"voice"`
	Menu     string         `mapstructure:"menu"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Sessions SessionsConfig `mapstructure:"sessions"`
}

// LLMConfig points at an OpenAI-compatible chat endpoint
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DataConfig locates the SQLite files
type DataConfig struct {
	Dir        string `mapstructure:"dir"`
	StudentsDB string `mapstructure:"students_db"`
	CarsDB     string `mapstructure:"cars_db"`
}

// MongoConfig configures the medical records store
type MongoConfig struct {
	ConnectionString string        `mapstructure:"connection_string"`
	Database         string        `mapstructure:"database"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
}

// ServerConfig configures the websocket server
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// VoiceConfig carries speech settings passed to front ends with every utterance
type VoiceConfig struct {
	STTModel string            `mapstructure:"stt_model"`
	TTSModel string            `mapstructure:"tts_model"`
	TTSVoice string            `mapstructure:"tts_voice"`
	Voices   map[string]string `mapstructure:"voices"`
}

// MetricsConfig toggles the /metrics endpoint
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SessionsConfig tunes the conversation driver
type SessionsConfig struct {
	MaxToolSteps int `mapstructure:"max_tool_steps"`
}

// DefaultVoices maps agent roles to TTS voice IDs
var DefaultVoices = map[string]string{
	"greeter":     "794f9389-aac1-45b6-b726-9d9369183238",
	"reservation": "156fb8d2-335b-4950-9cb3-a2d33befec77",
	"takeaway":    "6f84f4b8-58a2-430c-8c79-688dad597532",
	"checkout":    "39b376fc-488e-4d0c-8b37-e00b72059fdd",
}

// LoadConfig reads configuration from file, environment and defaults.
// configPath may be empty, in which case the usual locations are searched.
func LoadConfig(v *viper.Viper, configPath string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".voice-desk"))
		}
		if xdg, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(xdg, "voice-desk"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, &ConfigError{Key: "config", Err: fmt.Errorf("read config file: %w", err)}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// well-known variables without the prefix
	_ = v.BindEnv("llm.api_key", envPrefix+"_LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("mongodb.connection_string", envPrefix+"_MONGODB_CONNECTION_STRING", "MONGODB_CONNECTION_STRING")
	_ = v.BindEnv("mongodb.database", envPrefix+"_MONGODB_DATABASE", "MONGODB_DATABASE_NAME")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Key: "config", Err: err}
	}

	if cfg.Data.Dir == "" {
		dir, err := DetectDataDir()
		if err != nil {
			return nil, &ConfigError{Key: "data.dir", Err: err}
		}
		cfg.Data.Dir = dir
	}
	if cfg.Data.StudentsDB == "" {
		cfg.Data.StudentsDB = filepath.Join(cfg.Data.Dir, "students.db")
	}
	if cfg.Data.CarsDB == "" {
		cfg.Data.CarsDB = filepath.Join(cfg.Data.Dir, "auto_db.sqlite")
	}
	if cfg.Sessions.MaxToolSteps <= 0 {
		cfg.Sessions.MaxToolSteps = DefaultMaxToolSteps
	}
	if len(cfg.Voice.Voices) == 0 {
		cfg.Voice.Voices = DefaultVoices
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.with_caller", false)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", DefaultBaseURL)
	v.SetDefault("llm.model", DefaultModel)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("data.dir", "")
	v.SetDefault("data.students_db", "")
	v.SetDefault("data.cars_db", "")
	v.SetDefault("mongodb.connection_string", "")
	v.SetDefault("mongodb.database", DefaultMongoDatabase)
	v.SetDefault("mongodb.connect_timeout", 10*time.Second)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("voice.stt_model", "whisper-large-v3-turbo")
	v.SetDefault("voice.tts_model", "playai-tts")
	v.SetDefault("voice.tts_voice", "Arista-PlayAI")
	v.SetDefault("menu", DefaultMenu)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("sessions.max_tool_steps", DefaultMaxToolSteps)
}

// RequireMongo returns a ConfigError when no connection string is configured.
func (c *Config) RequireMongo() error {
	if strings.TrimSpace(c.MongoDB.ConnectionString) == "" {
		return &ConfigError{
			Key: "mongodb.connection_string",
			Err: errors.New("MONGODB_CONNECTION_STRING is not set"),
		}
	}
	return nil
}
