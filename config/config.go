package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/voletro/AgoraGo/consts"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`
	LogDir       string `json:"log_dir"`

	LLMProvider    string `json:"llm_provider"`
	ModelName      string `json:"model_name"`
	OpenAIBaseURL  string `json:"openai_base_url"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`
	MaxTokens      int    `json:"max_tokens"`

	MaxDebateRounds    int           `json:"max_debate_rounds"`
	StabilityThreshold float64       `json:"stability_threshold"`
	AgentTimeout       time.Duration `json:"agent_timeout"`

	// AgentWeights overrides the default 1.0 voting weight per
	// analyst id. Missing analysts keep weight 1.0.
	AgentWeights map[string]float64 `json:"agent_weights"`

	FinnhubAPIKey string `json:"finnhub_api_key"`
	CacheEnabled  bool   `json:"cache_enabled"`

	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	Debug            bool `json:"debug"`
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	weights := make(map[string]float64)
	for _, id := range consts.AllAnalysts() {
		weights[id] = 1.0
	}

	return &Config{
		ProjectDir:   currentDir,
		ResultsDir:   filepath.Join(currentDir, "results"),
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),
		LogDir:       filepath.Join(currentDir, "logs"),

		LLMProvider:   "openai",
		ModelName:     "gpt-4o-mini",
		OpenAIBaseURL: "https://api.openai.com/v1",
		MaxTokens:     8192,

		MaxDebateRounds:    3,
		StabilityThreshold: 0.75,
		AgentTimeout:       2 * time.Minute,
		AgentWeights:       weights,

		CacheEnabled: true,
	}
}

// LoadFromEnv applies .env and environment overrides on top of the
// defaults. A missing .env file is not an error.
func LoadFromEnv() *Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	setString(&cfg.LLMProvider, "LLM_PROVIDER")
	setString(&cfg.ModelName, "MODEL_NAME")
	setString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.DeepSeekAPIKey, "DEEPSEEK_API_KEY")
	setString(&cfg.FinnhubAPIKey, "FINNHUB_API_KEY")
	setString(&cfg.LongportAppKey, "LONGPORT_APP_KEY")
	setString(&cfg.LongportAppSecret, "LONGPORT_APP_SECRET")
	setString(&cfg.LongportAccessToken, "LONGPORT_ACCESS_TOKEN")

	setInt(&cfg.MaxDebateRounds, "MAX_DEBATE_ROUNDS")
	setFloat(&cfg.StabilityThreshold, "STABILITY_THRESHOLD")
	setBool(&cfg.CacheEnabled, "CACHE_ENABLED")
	setBool(&cfg.Debug, "AGORA_DEBUG")
	setBool(&cfg.EinoDebugEnabled, "EINO_DEBUG")

	if v := os.Getenv("AGENT_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.AgentTimeout = time.Duration(secs) * time.Second
		}
	}

	// Per-analyst weight overrides, e.g. WEIGHT_FUNDAMENTAL_ANALYST=1.5.
	for _, id := range consts.AllAnalysts() {
		key := "WEIGHT_" + strings.ToUpper(id)
		if v := os.Getenv(key); v != "" {
			if w, err := strconv.ParseFloat(v, 64); err == nil && w >= 0 {
				cfg.AgentWeights[id] = w
			}
		}
	}

	return cfg
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ResultsDir, c.DataDir, c.DataCacheDir, c.LogDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// AuditLogPath is the default location of the append-only reasoning
// trail.
func (c *Config) AuditLogPath() string {
	return filepath.Join(c.LogDir, "reasoning", "audit.jsonl")
}

// SignalDBPath is the sqlite file trading signals are persisted to.
func (c *Config) SignalDBPath() string {
	return filepath.Join(c.DataDir, "signals.db")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
