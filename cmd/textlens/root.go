package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appanalysis "github.com/bryanwahyu/textlens/internal/application/analysis"
	apptagging "github.com/bryanwahyu/textlens/internal/application/tagging"
	"github.com/bryanwahyu/textlens/internal/config"
	domai "github.com/bryanwahyu/textlens/internal/domain/ai"
	domtagging "github.com/bryanwahyu/textlens/internal/domain/tagging"
	"github.com/bryanwahyu/textlens/internal/infra/ai/ollama"
	"github.com/bryanwahyu/textlens/internal/infra/ai/openai"
	"github.com/bryanwahyu/textlens/internal/infra/keyword"
	"github.com/bryanwahyu/textlens/internal/logger"
	"github.com/bryanwahyu/textlens/internal/middleware"
)

type rootOptions struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "textlens",
		Short:         "Prompted text analysis and keyword tagging over a local LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			_ = godotenv.Load()

			path := opts.configPath
			if !cmd.Flags().Changed("config") {
				if v := os.Getenv("CONFIG_PATH"); v != "" {
					path = v
				}
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("config load error: %w", err)
			}
			if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
				return fmt.Errorf("logger init error: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to config file")

	cmd.AddCommand(newServeCmd(opts), newAnalyzeCmd(opts), newTagCmd(opts))
	return cmd
}

// inferenceClient is what the commands need from either adapter.
type inferenceClient interface {
	domai.Client
	middleware.HealthChecker
}

func newInferenceClient(cfg *config.Config) inferenceClient {
	inf := cfg.Inference
	if inf.Provider == config.ProviderOpenAI {
		return openai.NewClient(openai.Config{
			BaseURL:        inf.BaseURL,
			APIKey:         inf.APIKey,
			Model:          inf.Model,
			Timeout:        inf.Timeout,
			StrictResponse: inf.StrictResponse,
		})
	}
	return ollama.NewClient(ollama.Config{
		BaseURL:        inf.BaseURL,
		Model:          inf.Model,
		Timeout:        inf.Timeout,
		StrictResponse: inf.StrictResponse,
	})
}

func keywordOptions(cfg *config.Config) domtagging.Options {
	return domtagging.Options{
		NgramMin:  cfg.Keywords.NgramMin,
		NgramMax:  cfg.Keywords.NgramMax,
		Stopwords: domtagging.StopwordPolicy(cfg.Keywords.Stopwords),
		TopN:      cfg.Keywords.TopN,
	}
}

func newAnalysisService(cfg *config.Config, client domai.Client, extra ...appanalysis.Option) *appanalysis.Service {
	opts := append([]appanalysis.Option{appanalysis.WithConcurrency(cfg.Inference.Concurrency)}, extra...)
	return appanalysis.NewService(client, opts...)
}

func newTaggingService(cfg *config.Config) *apptagging.Service {
	return apptagging.NewService(keyword.New(), keywordOptions(cfg))
}
