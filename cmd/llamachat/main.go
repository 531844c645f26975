package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"llamachat/internal/chat"
	"llamachat/internal/config"
	"llamachat/internal/metrics"
	"llamachat/internal/session"
)

// Flag defaults; a config file can override any of them, explicit flags win.
const (
	defaultModelsDir   = "~/models/llm"
	defaultCtxSize     = 2048
	defaultGPULayers   = 0
	defaultMaxTokens   = 256
	defaultTemperature = 0.8
	defaultTopP        = 0.95
	defaultTopK        = 40
	defaultLogLevel    = "info"
)

type options struct {
	config.Config
	configPath string
}

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "llamachat",
		Short:         "Interactive console chat over a local GGUF model",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath != "" {
				fileCfg, err := config.Load(opts.configPath)
				if err != nil {
					return err
				}
				mergeConfig(cmd, &opts.Config, fileCfg)
			}
			log := newLogger(opts.LogLevel)
			if err := run(opts, log); err != nil {
				log.Error().Err(err).Msg("fatal")
				return err
			}
			return nil
		},
	}

	f := root.Flags()
	f.StringVar(&opts.Model, "model", "", "Path to the GGUF model file (default: first *.gguf in --models-dir)")
	f.StringVar(&opts.ModelsDir, "models-dir", defaultModelsDir, "Directory scanned for *.gguf model files")
	f.StringVar(&opts.configPath, "config", "", "Optional config file (.yaml/.json/.toml); flags win over file values")
	f.IntVar(&opts.CtxSize, "ctx-size", defaultCtxSize, "Context size (retained token history)")
	f.IntVar(&opts.GPULayers, "gpu-layers", defaultGPULayers, "Number of model layers offloaded to the GPU")
	f.IntVar(&opts.Threads, "threads", runtime.NumCPU(), "CPU threads for inference")
	f.IntVar(&opts.MaxTokens, "max-tokens", defaultMaxTokens, "Max output tokens per turn")
	f.Float32Var(&opts.Temperature, "temperature", defaultTemperature, "Sampling temperature")
	f.Float32Var(&opts.TopP, "top-p", defaultTopP, "Top-p sampling cutoff")
	f.IntVar(&opts.TopK, "top-k", defaultTopK, "Top-k sampling cutoff")
	f.IntVar(&opts.Seed, "seed", 0, "Sampling seed (0 = engine default)")
	f.Float32Var(&opts.RepeatPenalty, "repeat-penalty", 0, "Repeat penalty (0 = engine default)")
	f.StringSliceVar(&opts.Stop, "stop", []string{"User:"}, "Stop sequences ending a turn")
	f.StringVar(&opts.LogLevel, "log-level", defaultLogLevel, "Log level: debug|info|warn|error")
	f.StringVar(&opts.MetricsAddr, "metrics-addr", "", "Optional prometheus listen address, e.g. 127.0.0.1:9090 (off when empty)")
	return root
}

// mergeConfig overlays config file values under flags: a file value applies
// only when the corresponding flag was not set on the command line.
func mergeConfig(cmd *cobra.Command, dst *config.Config, file config.Config) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if !changed("model") && file.Model != "" {
		dst.Model = file.Model
	}
	if !changed("models-dir") && file.ModelsDir != "" {
		dst.ModelsDir = file.ModelsDir
	}
	if !changed("ctx-size") && file.CtxSize > 0 {
		dst.CtxSize = file.CtxSize
	}
	if !changed("gpu-layers") && file.GPULayers > 0 {
		dst.GPULayers = file.GPULayers
	}
	if !changed("threads") && file.Threads > 0 {
		dst.Threads = file.Threads
	}
	if !changed("max-tokens") && file.MaxTokens > 0 {
		dst.MaxTokens = file.MaxTokens
	}
	if !changed("temperature") && file.Temperature > 0 {
		dst.Temperature = file.Temperature
	}
	if !changed("top-p") && file.TopP > 0 {
		dst.TopP = file.TopP
	}
	if !changed("top-k") && file.TopK > 0 {
		dst.TopK = file.TopK
	}
	if !changed("seed") && file.Seed != 0 {
		dst.Seed = file.Seed
	}
	if !changed("repeat-penalty") && file.RepeatPenalty > 0 {
		dst.RepeatPenalty = file.RepeatPenalty
	}
	if !changed("stop") && len(file.Stop) > 0 {
		dst.Stop = file.Stop
	}
	if !changed("log-level") && file.LogLevel != "" {
		dst.LogLevel = file.LogLevel
	}
	if !changed("metrics-addr") && file.MetricsAddr != "" {
		dst.MetricsAddr = file.MetricsAddr
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

func run(opts *options, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !session.LlamaBuilt() {
		log.Warn().Msg("built without llama support; model loading will fail (rebuild with -tags=llama)")
	}

	// One scanner for all console input: the model path prompt and the chat
	// loop share it so type-ahead is never dropped between them.
	stdin := chat.NewScanner(os.Stdin)
	modelPath, err := chat.ResolveModelPath(opts.Model, opts.ModelsDir, stdin, os.Stdout)
	if err != nil {
		return err
	}

	mgr := session.New(session.NewLlamaEngine(), log)
	if err := mgr.Initialize(session.EngineConfig{
		ModelPath: modelPath,
		CtxSize:   opts.CtxSize,
		GPULayers: opts.GPULayers,
		Threads:   opts.Threads,
	}); err != nil {
		return err
	}
	defer mgr.Dispose()

	if err := mgr.SetupSession(chat.Preamble()); err != nil {
		return err
	}

	if opts.MetricsAddr != "" {
		go func() {
			log.Info().Str("addr", opts.MetricsAddr).Msg("metrics listening")
			if err := metrics.Serve(opts.MetricsAddr); err != nil {
				log.Warn().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	params := session.GenParams{
		MaxTokens:     opts.MaxTokens,
		Stop:          opts.Stop,
		Temperature:   opts.Temperature,
		TopP:          opts.TopP,
		TopK:          opts.TopK,
		Seed:          opts.Seed,
		RepeatPenalty: opts.RepeatPenalty,
	}
	loop := chat.New(stdin, os.Stdout, mgr, params, log)
	return loop.Run(ctx)
}
