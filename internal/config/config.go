package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig  `mapstructure:"paths"`
	Train    TrainConfig  `mapstructure:"train"`
	Server   ServerConfig `mapstructure:"server"`
	LogLevel string       `mapstructure:"log_level"`
}

type PathsConfig struct {
	ModelPath  string `mapstructure:"model_path"`
	CorpusPath string `mapstructure:"corpus_path"`
}

type TrainConfig struct {
	NumMerges int    `mapstructure:"num_merges"`
	Normalize string `mapstructure:"normalize"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps each command-line flag to its config key.
var flagKeys = []struct {
	flag string
	key  string
}{
	{"model", "paths.model_path"},
	{"corpus", "paths.corpus_path"},
	{"merges", "train.num_merges"},
	{"normalize", "train.normalize"},
	{"listen-addr", "server.listen_addr"},
	{"max-text-bytes", "server.max_text_bytes"},
	{"shutdown-timeout", "server.shutdown_timeout"},
	{"log-level", "log_level"},
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			ModelPath:  "tokenizer.json",
			CorpusPath: "",
		},
		Train: TrainConfig{
			NumMerges: 1000,
			Normalize: FormNone,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			MaxTextBytes:    64 << 10,
			ShutdownTimeout: 30,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("model", defaults.Paths.ModelPath, "Path to the model document (.json or .yaml)")
	fs.String("corpus", defaults.Paths.CorpusPath, "Path to the training corpus")
	fs.Int("merges", defaults.Train.NumMerges, "Number of merges to learn")
	fs.String("normalize", defaults.Train.Normalize, "Unicode normalization applied to the corpus (none|nfc|nfd|nfkc|nfkd)")
	fs.String("listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("max-text-bytes", defaults.Server.MaxTextBytes, "Maximum request text size in bytes")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("SUBWORD")
	replacer := strings.NewReplacer("-", "_", ".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("subword")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	form, err := NormalizeForm(cfg.Train.Normalize)
	if err != nil {
		return Config{}, err
	}
	cfg.Train.Normalize = form

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.model_path", c.Paths.ModelPath)
	v.SetDefault("paths.corpus_path", c.Paths.CorpusPath)
	v.SetDefault("train.num_merges", c.Train.NumMerges)
	v.SetDefault("train.normalize", c.Train.Normalize)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds the flags present in fs to their config keys. Flags a
// command does not register are skipped.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}

		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", fk.flag, err)
		}
	}

	return nil
}
