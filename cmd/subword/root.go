package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/example/go-subword/internal/config"
	"github.com/example/go-subword/internal/model"
	"github.com/example/go-subword/internal/server"
	"github.com/example/go-subword/internal/tokenizer"
)

var (
	cfgFile   string
	activeCfg config.Config

	// appFS backs every model and corpus path the CLI touches.
	appFS = afero.NewOsFs()
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "subword",
		Short:         "Byte-pair-encoding subword tokenizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newTrainCmd())
	cmd.AddCommand(newTokenizeCmd())
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newREPLCmd())
	cmd.AddCommand(newModelCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Paths.ModelPath == "" {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// loadTokenizer returns a tokenizer holding the model stored at path.
func loadTokenizer(path string) (*tokenizer.Tokenizer, error) {
	f, err := model.NewFile(appFS, path)
	if err != nil {
		return nil, err
	}

	tok := tokenizer.New(tokenizer.WithLogger(slog.Default()))
	if err := tok.Load(f, false); err != nil {
		return nil, err
	}

	return tok, nil
}
