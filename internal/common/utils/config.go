package utils

import (
	"log"
	"os"

	qconfig "github.com/qiniu/x/config"
)

var (
	DefaultConf Config
)

func InitConf(configFilePath string) {
	err := qconfig.LoadFile(&DefaultConf, configFilePath)
	if err != nil {
		log.Fatalf("failed to load config file, error %v", err)
	}
}

// MongoConfig mongo database configuration.
type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// QiniuKeyPair qiniu API access key/secret key pair.
type QiniuKeyPair struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// QiniuStorageConfig kodo bucket holding exported interview transcripts.
type QiniuStorageConfig struct {
	Bucket string `json:"bucket"`
	// URLPrefix download URL prefix, usually the bucket's default domain.
	URLPrefix string `json:"url_prefix"`
}

// FixedIdentity is a canned uid/email pair bound to a fixed test token.
type FixedIdentity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// AuthConfig identity provider (Firebase Auth) configuration.
type AuthConfig struct {
	ProjectID string `json:"project_id"`
	// CertsURL x509 cert endpoint for ID token signature keys. Defaults to
	// the Google securetoken endpoint when empty.
	CertsURL string `json:"certs_url"`
	// DevMode accepts HS256 tokens signed with jwt_key in place of real
	// provider ID tokens. Never enable in production.
	DevMode bool `json:"dev_mode"`
	// FixedTokens fixed token->identity combinations, for tests.
	FixedTokens map[string]FixedIdentity `json:"fixed_tokens,omitempty"`
}

// LLMConfig chat completion provider (OpenRouter) configuration.
type LLMConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	// APIKeys rotated round-robin to spread free-tier quota.
	APIKeys       []string `json:"api_keys"`
	MaxRetries    int      `json:"max_retries"`
	TimeoutSecond int      `json:"timeout_s"`
	Temperature   float64  `json:"temperature"`
	MaxTokens     int      `json:"max_tokens"`
	// Referer and AppTitle fill the HTTP-Referer / X-Title headers OpenRouter
	// uses for app attribution.
	Referer  string `json:"referer"`
	AppTitle string `json:"app_title"`
}

// TTSConfig voice synthesis provider (ElevenLabs) configuration.
type TTSConfig struct {
	BaseURL string   `json:"base_url"`
	APIKeys []string `json:"api_keys"`
	ModelID string   `json:"model_id"`
	// Voices maps a voice style (male/female) to the provider voice ID.
	Voices          map[string]string `json:"voices"`
	Stability       float64           `json:"stability"`
	SimilarityBoost float64           `json:"similarity_boost"`
	TimeoutSecond   int               `json:"timeout_s"`
}

// SessionConfig interview session lifecycle policy.
type SessionConfig struct {
	// MaxAgeHour active sessions older than this are expired by the janitor.
	MaxAgeHour int `json:"max_age_h"`
	// EndedTTLMinute ended/expired sessions are purged this long after ending.
	EndedTTLMinute int `json:"ended_ttl_m"`
	// MaxInappropriate flagged messages tolerated before the interview is
	// force-ended.
	MaxInappropriate      int `json:"max_inappropriate"`
	DefaultDurationMinute int `json:"default_duration_m"`
}

// Config backend configuration.
type Config struct {
	// DebugLevel 1 logs info/warn/error, 0 additionally logs debug.
	DebugLevel int    `json:"debug_level"`
	ListenAddr string `json:"listen_addr"`
	// CORSAllowOrigins frontend origins allowed to call the API.
	CORSAllowOrigins []string `json:"cors_allow_origins"`

	Mongo        *MongoConfig        `json:"mongo"`
	Auth         *AuthConfig         `json:"auth"`
	LLM          *LLMConfig          `json:"llm"`
	TTS          *TTSConfig          `json:"tts"`
	Storage      *QiniuStorageConfig `json:"storage"`
	QiniuKeyPair QiniuKeyPair        `json:"qiniu_key_pair"`
	Session      *SessionConfig      `json:"session"`

	JwtKey string `json:"jwt_key"`
}

// NewSample returns a sample configuration.
func NewSample() *Config {
	return &Config{
		DebugLevel: 0,
		ListenAddr: ":5000",
		CORSAllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5500",
			"http://127.0.0.1:5500",
		},
		Mongo: &MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "interview_coach_test",
		},
		Auth: &AuthConfig{
			ProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
			DevMode:   true,
		},
		LLM: &LLMConfig{
			BaseURL:       "https://openrouter.ai/api/v1",
			Model:         "google/gemma-2-9b-it",
			APIKeys:       []string{os.Getenv("OPENROUTER_KEY")},
			MaxRetries:    3,
			TimeoutSecond: 30,
			Temperature:   0.7,
			MaxTokens:     256,
		},
		TTS: &TTSConfig{
			BaseURL: "https://api.elevenlabs.io/v1",
			APIKeys: []string{os.Getenv("ELEVEN_KEY")},
			ModelID: "eleven_turbo_v2",
			Voices: map[string]string{
				"male":   "pNInz6obpgDQGcFmaJgB",
				"female": "Xb0ZEqXn3XGQW2c3Kmbl",
			},
			Stability:       0.35,
			SimilarityBoost: 0.7,
		},
		Session: &SessionConfig{
			MaxAgeHour:            24,
			EndedTTLMinute:        60,
			MaxInappropriate:      3,
			DefaultDurationMinute: 15,
		},
	}
}
