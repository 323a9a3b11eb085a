package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// FirestoreCredentialsFile 是服务账号凭证文件的固定文件名，位于进程
// 工作目录下。
const FirestoreCredentialsFile = "firebase-adminsdk.json"

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Hume   HumeConfig
	OpenAI OpenAIConfig
	Store  StoreConfig
	Audio  AudioConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	audio, err := loadAudioConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Hume:   loadHumeConfig(),
		OpenAI: loadOpenAIConfig(),
		Store:  loadStoreConfig(),
		Audio:  audio,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述文本分析所用大模型的配置。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + Model 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		// 分析提示词要求确定性输出。
		zero := 0.0
		temperature = &zero
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

// HumeConfig 描述共情语音（EVI）实时接口的配置。
type HumeConfig struct {
	APIKey    string
	SecretKey string
	ConfigID  string
	BaseURL   string
}

// Enabled 表示是否提供了必需的密钥。
func (c HumeConfig) Enabled() bool {
	return c.APIKey != "" && c.ConfigID != ""
}

func loadHumeConfig() HumeConfig {
	return HumeConfig{
		APIKey:    strings.TrimSpace(os.Getenv("HUME_API_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("HUME_SECRET_KEY")),
		ConfigID:  strings.TrimSpace(os.Getenv("HUME_CONFIG_ID")),
		BaseURL:   getEnvOrDefault("HUME_BASE_URL", "wss://api.hume.ai/v0/evi/chat"),
	}
}

// OpenAIConfig 描述 Whisper 语音转写接口的配置。
type OpenAIConfig struct {
	APIKey       string
	WhisperModel string
}

// Enabled 表示是否提供了必需的密钥。
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		APIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		WhisperModel: getEnvOrDefault("OPENAI_WHISPER_MODEL", "whisper-1"),
	}
}

// StoreConfig 描述日记持久化存储的配置。
type StoreConfig struct {
	ProjectID       string
	Collection      string
	CredentialsFile string
}

// Enabled 表示是否提供了必需的项目标识。
func (c StoreConfig) Enabled() bool {
	return c.ProjectID != ""
}

func loadStoreConfig() StoreConfig {
	return StoreConfig{
		ProjectID:       strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID")),
		Collection:      getEnvOrDefault("FIRESTORE_COLLECTION", "journals"),
		CredentialsFile: FirestoreCredentialsFile,
	}
}

// AudioConfig 描述本地音频采集与回放的配置。
type AudioConfig struct {
	CaptureCmd   string
	PlaybackCmd  string
	SampleRate   int
	ChunkSeconds int
}

func loadAudioConfig() (AudioConfig, error) {
	sampleRate := 16000
	if override, err := parseOptionalIntEnv("AUDIO_SAMPLE_RATE"); err != nil {
		return AudioConfig{}, err
	} else if override != nil {
		sampleRate = *override
	}

	chunkSeconds := 5
	if override, err := parseOptionalIntEnv("AUDIO_CHUNK_SECONDS"); err != nil {
		return AudioConfig{}, err
	} else if override != nil {
		if *override < 1 {
			chunkSeconds = 1
		} else {
			chunkSeconds = *override
		}
	}

	return AudioConfig{
		CaptureCmd:   getEnvOrDefault("AUDIO_CAPTURE_CMD", "arecord"),
		PlaybackCmd:  getEnvOrDefault("AUDIO_PLAYBACK_CMD", "aplay"),
		SampleRate:   sampleRate,
		ChunkSeconds: chunkSeconds,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
