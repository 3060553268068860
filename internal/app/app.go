package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"NewsDigest/internal/analyzer"
	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/infrastructure/extractor"
	"NewsDigest/internal/infrastructure/fetcher"
	"NewsDigest/internal/infrastructure/llm"
	"NewsDigest/internal/infrastructure/notify"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/usecase"
	"NewsDigest/internal/webhook"
)

// Application wires configuration to the pipeline, dispatcher, and
// webhook front-end.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	pipeline   *usecase.Pipeline
	dispatcher *usecase.Dispatcher
	webhook    *webhook.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	line := notify.NewLINENotifier(cfg.Notifications.LINE)

	pipeline := usecase.NewPipeline(usecase.Deps{
		Fetcher:       fetcher.New(time.Duration(cfg.Fetcher.TimeoutSeconds) * time.Second),
		Extractor:     extractor.New(cfg.Extractor.MinParagraphLength),
		Analyzer:      buildAnalyzer(cfg.Analyzer, baseLogger),
		Summarizer:    buildSummarizer(cfg.LLM),
		Notifier:      selectNotifier(cfg.Notifications, line),
		SummaryBudget: cfg.Pipeline.SummaryBudget,
		Logger:        baseLogger.With("component", "pipeline"),
	})

	dispatcher := usecase.NewDispatcher(pipeline, line, baseLogger.With("component", "dispatcher"))

	server := webhook.NewServer(
		cfg.Notifications.LINE.ChannelSecret,
		cfg.Sources,
		line,
		dispatcher,
		baseLogger.With("component", "webhook"),
	)

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		pipeline:   pipeline,
		dispatcher: dispatcher,
		webhook:    server,
	}
}

// ProcessURL runs one synchronous pipeline execution.
func (a *Application) ProcessURL(ctx context.Context, url string, notify bool) domain.Report {
	return a.pipeline.Process(ctx, url, notify)
}

// ListenAndServe runs the webhook front-end until the listener stops.
func (a *Application) ListenAndServe() error {
	a.logger.Info("webhook server listening", "addr", a.cfg.Server.Addr)
	server := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.webhook.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}

func buildAnalyzer(cfg config.AnalyzerConfig, logger *slog.Logger) ports.Analyzer {
	opts := analyzer.Options{
		TopN:           cfg.TopN,
		MinTokenLength: cfg.MinTokenLength,
	}
	if cfg.UseDictionary {
		tokenizer, err := analyzer.NewDictionaryTokenizer()
		if err != nil {
			logger.Warn("dictionary tokenizer unavailable, using regex fallback", "error", err)
		} else {
			opts.Tokenizer = tokenizer
		}
	}
	return analyzer.New(opts)
}

func buildSummarizer(cfg config.LLMConfig) ports.Summarizer {
	if cfg.Provider == "openai" {
		return llm.NewOpenAIProvider(cfg.OpenAI)
	}
	return llm.NewGeminiProvider(cfg.Gemini)
}

// selectNotifier picks the first configured channel: LINE, then
// Telegram, then Discord, then Slack. Nil when none is configured, in
// which case the notify stage is skipped.
func selectNotifier(cfg config.NotificationConfig, line *notify.LINENotifier) ports.Notifier {
	switch {
	case cfg.LINE.ChannelAccessToken != "" && cfg.LINE.UserID != "":
		return line
	case cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "":
		return notify.NewTelegramNotifier(cfg.Telegram)
	case cfg.Discord.WebhookURL != "":
		return notify.NewDiscordNotifier(cfg.Discord.WebhookURL)
	case cfg.Slack.WebhookURL != "":
		return notify.NewSlackNotifier(cfg.Slack.WebhookURL)
	default:
		return nil
	}
}
