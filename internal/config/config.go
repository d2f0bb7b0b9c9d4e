package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every tunable of the service.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Delivery DeliveryConfig
	Roster   RosterConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	delivery, err := loadDeliveryConfig()
	if err != nil {
		return nil, err
	}

	roster, err := loadRosterConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Delivery: delivery, Roster: roster}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the chat-model backing the simulated replies.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

// DeliveryConfig drives the simulated delivery state machine.
type DeliveryConfig struct {
	DeliveredDelay time.Duration
	ReadDelay      time.Duration
	ReplyBaseDelay time.Duration
	ReplyJitter    time.Duration
	ReplyTimeout   time.Duration
}

func loadDeliveryConfig() (DeliveryConfig, error) {
	delivered, err := parseDurationMsEnv("DELIVERY_DELIVERED_DELAY_MS", 800*time.Millisecond)
	if err != nil {
		return DeliveryConfig{}, err
	}

	read, err := parseDurationMsEnv("DELIVERY_READ_DELAY_MS", 1600*time.Millisecond)
	if err != nil {
		return DeliveryConfig{}, err
	}

	base, err := parseDurationMsEnv("REPLY_BASE_DELAY_MS", 1500*time.Millisecond)
	if err != nil {
		return DeliveryConfig{}, err
	}

	jitter, err := parseDurationMsEnv("REPLY_JITTER_MS", 2000*time.Millisecond)
	if err != nil {
		return DeliveryConfig{}, err
	}

	timeout, err := parseDurationMsEnv("REPLY_TIMEOUT_MS", 12*time.Second)
	if err != nil {
		return DeliveryConfig{}, err
	}

	if read < delivered {
		return DeliveryConfig{}, fmt.Errorf("DELIVERY_READ_DELAY_MS (%s) must not be shorter than DELIVERY_DELIVERED_DELAY_MS (%s)", read, delivered)
	}

	return DeliveryConfig{
		DeliveredDelay: delivered,
		ReadDelay:      read,
		ReplyBaseDelay: base,
		ReplyJitter:    jitter,
		ReplyTimeout:   timeout,
	}, nil
}

// RosterConfig points at the external profile source.
type RosterConfig struct {
	URL     string
	Size    int
	Timeout time.Duration
}

func loadRosterConfig() (RosterConfig, error) {
	size := 20
	if override, err := parseOptionalIntEnv("ROSTER_SIZE"); err != nil {
		return RosterConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return RosterConfig{}, fmt.Errorf("ROSTER_SIZE must be positive, got %d", *override)
		}
		size = *override
	}

	timeout, err := parseDurationMsEnv("ROSTER_TIMEOUT_MS", 10*time.Second)
	if err != nil {
		return RosterConfig{}, err
	}

	return RosterConfig{
		URL:     getEnvOrDefault("ROSTER_URL", "https://randomuser.me/api/"),
		Size:    size,
		Timeout: timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationMsEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, err := parseOptionalIntEnv(key)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return defaultValue, nil
	}
	if *raw < 0 {
		return 0, fmt.Errorf("invalid %s value %d: must not be negative", key, *raw)
	}
	return time.Duration(*raw) * time.Millisecond, nil
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
