package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "NEWS_DIGEST_CONFIG"
	openAIKeyEnv        = "OPENAI_API_KEY"
	geminiKeyEnv        = "GOOGLE_API_KEY"
	telegramTokenEnv    = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv   = "TELEGRAM_CHAT_ID"
	discordWebhookEnv   = "DISCORD_WEBHOOK_URL"
	slackWebhookEnv     = "SLACK_WEBHOOK_URL"
	lineTokenEnv        = "LINE_CHANNEL_ACCESS_TOKEN"
	lineSecretEnv       = "LINE_CHANNEL_SECRET"
	lineUserIDEnv       = "LINE_USER_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Fetcher       FetcherConfig      `yaml:"fetcher"`
	Extractor     ExtractorConfig    `yaml:"extractor"`
	Analyzer      AnalyzerConfig     `yaml:"analyzer"`
	LLM           LLMConfig          `yaml:"llm"`
	Notifications NotificationConfig `yaml:"notifications"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Server        ServerConfig       `yaml:"server"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FetcherConfig tunes outbound page retrieval.
type FetcherConfig struct {
	TimeoutSeconds int `yaml:"timeoutSeconds"`
}

// ExtractorConfig tunes HTML-to-prose extraction.
type ExtractorConfig struct {
	MinParagraphLength int `yaml:"minParagraphLength"`
}

// AnalyzerConfig tunes keyword ranking and tokenization.
type AnalyzerConfig struct {
	TopN           int  `yaml:"topN"`
	MinTokenLength int  `yaml:"minTokenLength"`
	UseDictionary  bool `yaml:"useDictionary"`
}

// LLMConfig selects and configures the summarization backend.
type LLMConfig struct {
	Provider string       `yaml:"provider"`
	OpenAI   OpenAIConfig `yaml:"openai"`
	Gemini   GeminiConfig `yaml:"gemini"`
}

// OpenAIConfig defines how to contact the chat-completions API.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// GeminiConfig defines how to contact the generate-content API.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Discord  WebhookChannelConfig `yaml:"discord"`
	Slack    WebhookChannelConfig `yaml:"slack"`
	Telegram TelegramConfig       `yaml:"telegram"`
	LINE     LineConfig           `yaml:"line"`
}

// WebhookChannelConfig wires a plain webhook-post channel.
type WebhookChannelConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// TelegramConfig wires all data required to push bot messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LineConfig wires the LINE Messaging API channel.
type LineConfig struct {
	ChannelAccessToken string `yaml:"channelAccessToken"`
	ChannelSecret      string `yaml:"channelSecret"`
	UserID             string `yaml:"userId"`
}

// PipelineConfig tunes orchestration behavior.
type PipelineConfig struct {
	SummaryBudget int `yaml:"summaryBudget"`
}

// ServerConfig describes the webhook front-end listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SourceConfig describes one news source offered in the quick-reply menu.
type SourceConfig struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Emoji string `yaml:"emoji"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. Credentials enter the application only here; constructors
// downstream never touch the environment.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.LLM.OpenAI.APIKey = v
	}
	if v := os.Getenv(geminiKeyEnv); v != "" {
		c.LLM.Gemini.APIKey = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv(discordWebhookEnv); v != "" {
		c.Notifications.Discord.WebhookURL = v
	}
	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Notifications.Slack.WebhookURL = v
	}
	if v := os.Getenv(lineTokenEnv); v != "" {
		c.Notifications.LINE.ChannelAccessToken = v
	}
	if v := os.Getenv(lineSecretEnv); v != "" {
		c.Notifications.LINE.ChannelSecret = v
	}
	if v := os.Getenv(lineUserIDEnv); v != "" {
		c.Notifications.LINE.UserID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Fetcher.TimeoutSeconds > 0 {
		base.Fetcher.TimeoutSeconds = override.Fetcher.TimeoutSeconds
	}
	if override.Extractor.MinParagraphLength > 0 {
		base.Extractor.MinParagraphLength = override.Extractor.MinParagraphLength
	}

	if override.Analyzer.TopN > 0 {
		base.Analyzer.TopN = override.Analyzer.TopN
	}
	if override.Analyzer.MinTokenLength > 0 {
		base.Analyzer.MinTokenLength = override.Analyzer.MinTokenLength
	}
	if override.Analyzer.UseDictionary {
		base.Analyzer.UseDictionary = true
	}

	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.OpenAI.Endpoint != "" {
		base.LLM.OpenAI.Endpoint = override.LLM.OpenAI.Endpoint
	}
	if override.LLM.OpenAI.Model != "" {
		base.LLM.OpenAI.Model = override.LLM.OpenAI.Model
	}
	if override.LLM.OpenAI.APIKey != "" {
		base.LLM.OpenAI.APIKey = override.LLM.OpenAI.APIKey
	}
	if override.LLM.Gemini.Endpoint != "" {
		base.LLM.Gemini.Endpoint = override.LLM.Gemini.Endpoint
	}
	if override.LLM.Gemini.Model != "" {
		base.LLM.Gemini.Model = override.LLM.Gemini.Model
	}
	if override.LLM.Gemini.APIKey != "" {
		base.LLM.Gemini.APIKey = override.LLM.Gemini.APIKey
	}

	if override.Notifications.Discord.WebhookURL != "" {
		base.Notifications.Discord = override.Notifications.Discord
	}
	if override.Notifications.Slack.WebhookURL != "" {
		base.Notifications.Slack = override.Notifications.Slack
	}
	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.LINE.ChannelAccessToken != "" {
		base.Notifications.LINE.ChannelAccessToken = override.Notifications.LINE.ChannelAccessToken
	}
	if override.Notifications.LINE.ChannelSecret != "" {
		base.Notifications.LINE.ChannelSecret = override.Notifications.LINE.ChannelSecret
	}
	if override.Notifications.LINE.UserID != "" {
		base.Notifications.LINE.UserID = override.Notifications.LINE.UserID
	}

	if override.Pipeline.SummaryBudget > 0 {
		base.Pipeline.SummaryBudget = override.Pipeline.SummaryBudget
	}
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Fetcher:   FetcherConfig{TimeoutSeconds: 30},
		Extractor: ExtractorConfig{MinParagraphLength: 20},
		Analyzer:  AnalyzerConfig{TopN: 20, MinTokenLength: 2},
		LLM: LLMConfig{
			Provider: "gemini",
			OpenAI: OpenAIConfig{
				Endpoint: "https://api.openai.com/v1/chat/completions",
				Model:    "gpt-4o-mini",
			},
			Gemini: GeminiConfig{
				Endpoint: "https://generativelanguage.googleapis.com/v1beta/models",
				Model:    "gemini-2.0-flash",
			},
		},
		Pipeline: PipelineConfig{SummaryBudget: 3000},
		Server:   ServerConfig{Addr: ":8080"},
		Sources: []SourceConfig{
			{ID: "yahoo", Name: "Yahoo 新聞", URL: "https://tw.news.yahoo.com/", Emoji: "📰"},
			{ID: "nikkei", Name: "日經新聞", URL: "https://www.nikkei.com/", Emoji: "📊"},
		},
	}
}
