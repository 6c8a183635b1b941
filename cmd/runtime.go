package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abhisek/lezen/internal/config"
	"github.com/abhisek/lezen/internal/llm"
	"github.com/abhisek/lezen/internal/logger"
	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/store"
)

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"db":        "db.path",
	"provider":  "llm.provider",
	"model":     "llm.model",
	"log-level": "log.level",
}

// runtime bundles what every command needs: configuration, the logger and
// the optional request log.
type runtime struct {
	cfg   config.Config
	log   *zap.Logger
	store *store.Store
}

// loadConfig reads the configuration with flags taking precedence.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viper.New()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Config{}, fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	return config.Load(v)
}

// newRuntime loads the configuration, builds the logger and opens the
// request log when db.path is set. logOut is the log destination when no
// log file is configured; nil means stderr.
func newRuntime(cmd *cobra.Command, logOut io.Writer) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Log.File == "" {
		cfg.Log.Output = logOut
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	rt := &runtime{cfg: cfg, log: log}

	path, err := requestLogPath(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if path != "" {
		st, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open request log: %w", err)
		}
		rt.store = st
		log.Debug("request log enabled", zap.String("path", path))
	}
	return rt, nil
}

// requestLogPath resolves db.path. "" disables the log and "auto" selects
// the default location under the XDG data dir.
func requestLogPath(p string) (string, error) {
	switch p {
	case "":
		return "", nil
	case "auto":
		return store.DefaultDBPath()
	}
	return p, store.EnsureDir(p)
}

// generator builds the provider chain and the reading generator over it.
func (rt *runtime) generator(ctx context.Context) (*reading.LLMGenerator, error) {
	if err := rt.cfg.LLM.Validate(); err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	var recorder llm.EventRecorder
	if rt.store != nil {
		recorder = rt.store.EventRepo()
	}

	provider, err := llm.NewProvider(ctx, rt.cfg.LLM, rt.log, recorder)
	if err != nil {
		return nil, err
	}
	rt.log.Info("LLM provider ready",
		zap.String("provider", rt.cfg.LLM.Provider),
		zap.String("model", provider.ModelID()),
	)
	return reading.New(provider, rt.cfg.Reading(), rt.log), nil
}

// requireStore returns the request log or an error when it is disabled.
func (rt *runtime) requireStore() (*store.Store, error) {
	if rt.store == nil {
		return nil, fmt.Errorf("request log disabled; set db.path, LEZEN_DB_PATH or --db")
	}
	return rt.store, nil
}

func (rt *runtime) Close() {
	if rt.store != nil {
		rt.store.Close()
	}
	_ = rt.log.Sync()
}
