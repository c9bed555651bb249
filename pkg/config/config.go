package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
)

const (
	DefaultProfile = "default"   // profile used when none is named
	DefaultRegion  = "us-east-1" // IAM is global, but the SDK still wants one
)

// Rotation holds the settings that change how the rotation workflow behaves.
// It is handed to the rotation manager when it is constructed.
type Rotation struct {
	// Verbose turns on a progress report for each step. It never changes what
	// the workflow does.
	Verbose bool `mapstructure:"verbose"`

	// DryRun lists what would be deleted and stops before any change is made.
	DryRun bool `mapstructure:"dry-run"`

	// KeepGoing attempts every stale key deletion even after one fails. The
	// workflow still stops before creating a new key if any deletion failed.
	KeepGoing bool `mapstructure:"keep-going"`

	// Timeout bounds each call to the credential service. Zero means wait
	// forever.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Config is the programmatic representation of the loaded configuration.
type Config struct {
	Profile         string `mapstructure:"profile"`
	CredentialsFile string `mapstructure:"credentials-file"`
	Region          string `mapstructure:"region"`

	Rotation Rotation `mapstructure:",squash"`
}

// firstEnv returns the value of the first environment variable set to a
// non-empty value.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Prepare should be called after the configuration object has been loaded.
// This will normalize the configuration and fill in any details that can be
// inferred from the environment, the same way the AWS CLI would. It also checks
// for errors in the configuration that are unrelated to syntax.
//
// Returns an error if a problem is detected with the configuration or nil if no
// problem is found.
func (c *Config) Prepare() error {
	if c.Profile == "" {
		c.Profile = firstEnv("AWS_PROFILE")
	}
	if c.Profile == "" {
		c.Profile = DefaultProfile
	}

	if c.CredentialsFile == "" {
		c.CredentialsFile = firstEnv("AWS_SHARED_CREDENTIALS_FILE")
	}
	if c.CredentialsFile == "" {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("unable to locate home directory for the default credentials file: %w", err)
		}
		c.CredentialsFile = filepath.Join(home, ".aws", "credentials")
	}

	path, err := homedir.Expand(c.CredentialsFile)
	if err != nil {
		return fmt.Errorf("unable to expand credentials file path %q: %w", c.CredentialsFile, err)
	}
	c.CredentialsFile = path

	if c.Region == "" {
		c.Region = firstEnv("AWS_REGION", "AWS_DEFAULT_REGION")
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}

	if c.Rotation.Timeout < 0 {
		return fmt.Errorf("timeout %v is negative; use 0 to wait without limit", c.Rotation.Timeout)
	}

	return nil
}
