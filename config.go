package followerwatch

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// NotificationMethod selects how new followers are announced. It is fixed
// for the lifetime of the process.
type NotificationMethod string

const (
	MethodEmail   NotificationMethod = "email"
	MethodWebhook NotificationMethod = "webhook"
)

// EmailConfig holds the SMTP transport settings for email notifications.
type EmailConfig struct {
	Host     string
	Port     int
	From     string
	Password string
	To       string
}

// Config is everything the process needs, built once at startup and passed
// in explicitly. Nothing reads settings from ambient globals.
type Config struct {
	// GitHubToken authenticates follower-list fetches.
	GitHubToken string

	// Username is the account whose followers are watched.
	Username string

	Method     NotificationMethod
	Email      EmailConfig
	WebhookURL string

	// Interval is how long to sleep between ticks in continuous mode.
	Interval time.Duration

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string

	// SnapshotPath is where the follower snapshot lives (a JSON file for
	// the file driver, a database file for sqlite).
	SnapshotPath string

	// StoreDriver is "file" or "sqlite".
	StoreDriver string
}

// DefaultConfig returns a Config with the defaults the agent has always
// shipped with. Token, username, and the method-specific settings still
// have to be filled in.
func DefaultConfig() Config {
	return Config{
		Method: MethodEmail,
		Email: EmailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Interval:     5 * time.Minute,
		LogLevel:     "info",
		SnapshotPath: "followers.json",
		StoreDriver:  "file",
	}
}

// Validate checks that every setting required for the selected notification
// method is present, reporting all problems at once. A Config that fails
// validation must not be used to start the monitor.
func (c Config) Validate() error {
	var problems []string

	if c.GitHubToken == "" {
		problems = append(problems, "GITHUB_TOKEN is required")
	}
	if c.Username == "" {
		problems = append(problems, "GITHUB_USERNAME is required")
	}

	switch c.Method {
	case MethodEmail:
		if c.Email.From == "" || c.Email.Password == "" || c.Email.To == "" {
			problems = append(problems,
				"email configuration incomplete (EMAIL_FROM, EMAIL_PASSWORD, EMAIL_TO required)")
		}
	case MethodWebhook:
		if c.WebhookURL == "" {
			problems = append(problems, "WEBHOOK_URL is required for webhook notifications")
		}
	default:
		problems = append(problems,
			"NOTIFICATION_METHOD must be one of: email, webhook")
	}

	switch c.StoreDriver {
	case "", "file", "sqlite":
	default:
		problems = append(problems, "STORE_DRIVER must be one of: file, sqlite")
	}
	if c.Interval <= 0 {
		problems = append(problems, "CHECK_INTERVAL must be greater than zero")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("configuration errors:\n- " + strings.Join(problems, "\n- "))
}
