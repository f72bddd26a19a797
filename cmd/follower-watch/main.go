package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"followerwatch"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "follower-watch",
		Short: "Watch a GitHub account for new followers and get notified",
		Long: `follower-watch polls the GitHub API for an account's follower list,
diffs it against the last persisted snapshot, and sends an email or
webhook notification for any new followers.

All settings come from the environment (GITHUB_TOKEN, GITHUB_USERNAME,
NOTIFICATION_METHOD, ...) or from an optional config file.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (settings default to environment variables)")
	root.AddCommand(runCommand())
	root.AddCommand(onceCommand())
	root.AddCommand(testCommand())
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	return root
}

// loadConfig builds the process configuration from defaults, the optional
// config file, and the environment, in increasing order of precedence.
func loadConfig() (followerwatch.Config, error) {
	def := followerwatch.DefaultConfig()

	v := viper.New()
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_USERNAME", "")
	v.SetDefault("NOTIFICATION_METHOD", string(def.Method))
	v.SetDefault("EMAIL_SMTP_SERVER", def.Email.Host)
	v.SetDefault("EMAIL_SMTP_PORT", def.Email.Port)
	v.SetDefault("EMAIL_FROM", "")
	v.SetDefault("EMAIL_PASSWORD", "")
	v.SetDefault("EMAIL_TO", "")
	v.SetDefault("WEBHOOK_URL", "")
	v.SetDefault("CHECK_INTERVAL", int(def.Interval/time.Second))
	v.SetDefault("LOG_LEVEL", def.LogLevel)
	v.SetDefault("FOLLOWERS_FILE", def.SnapshotPath)
	v.SetDefault("STORE_DRIVER", def.StoreDriver)
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return followerwatch.Config{}, err
		}
	}

	cfg := followerwatch.Config{
		GitHubToken: v.GetString("GITHUB_TOKEN"),
		Username:    v.GetString("GITHUB_USERNAME"),
		Method:      followerwatch.NotificationMethod(v.GetString("NOTIFICATION_METHOD")),
		Email: followerwatch.EmailConfig{
			Host:     v.GetString("EMAIL_SMTP_SERVER"),
			Port:     v.GetInt("EMAIL_SMTP_PORT"),
			From:     v.GetString("EMAIL_FROM"),
			Password: v.GetString("EMAIL_PASSWORD"),
			To:       v.GetString("EMAIL_TO"),
		},
		WebhookURL:   v.GetString("WEBHOOK_URL"),
		Interval:     time.Duration(v.GetInt("CHECK_INTERVAL")) * time.Second,
		LogLevel:     v.GetString("LOG_LEVEL"),
		SnapshotPath: v.GetString("FOLLOWERS_FILE"),
		StoreDriver:  v.GetString("STORE_DRIVER"),
	}
	return cfg, nil
}

func logger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

// buildMonitor wires a Monitor from cfg. The returned closer releases the
// snapshot store (a no-op for the file driver).
func buildMonitor(cfg followerwatch.Config, log *zap.SugaredLogger) (*followerwatch.Monitor, io.Closer, error) {
	source := followerwatch.NewGitHubFollowers(cfg.GitHubToken,
		followerwatch.WithGitHubLogger(log))

	var (
		store  followerwatch.SnapshotStore
		closer io.Closer = nopCloser{}
	)
	switch cfg.StoreDriver {
	case "sqlite":
		ss, err := followerwatch.OpenSQLiteStore(cfg.SnapshotPath)
		if err != nil {
			return nil, nil, err
		}
		store, closer = ss, ss
	default:
		store = followerwatch.NewFileStore(cfg.SnapshotPath)
	}

	notifier, err := followerwatch.NewNotifier(cfg, log)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}

	m, err := followerwatch.NewMonitor(
		cfg.Username,
		cfg.Interval,
		source,
		store,
		notifier,
		followerwatch.WithMonitorLogger(log))
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return m, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
