package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	profileToken   = "profile"
	credFileToken  = "credentials-file"
	regionToken    = "region"
	verboseToken   = "verbose"
	dryRunToken    = "dry-run"
	keepGoingToken = "keep-going"
	timeoutToken   = "timeout"

	envPrefix = "ROTATE_KEY"
)

// Version is replaced at build time with -ldflags "-X".
var Version = "dev"

var (
	cfgFile string
	cfgErr  error
)

// rootCmd rotates the key when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "aws-rotate-key",
	Short: "rotate the AWS access key configured for a profile",
	Long: `Replaces the access key of an AWS CLI profile with a new one.

Every other access key held by the same IAM user is deleted first, then a new
key is created, the old key is deactivated, and the new key is written to the
shared credentials file.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          RunRotation,
}

// Execute runs the command named on the command line and exits 1 if it
// fails. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		displayError(err, color.Error)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.aws-rotate-key/config.yaml)")
	flags.String(profileToken, "", "the AWS CLI profile whose key is rotated (default is $AWS_PROFILE or \"default\")")
	flags.String(credFileToken, "", "the shared credentials file (default is $AWS_SHARED_CREDENTIALS_FILE or ~/.aws/credentials)")
	flags.String(regionToken, "", "the AWS region for API calls (default is $AWS_REGION or us-east-1)")
	flags.BoolP(verboseToken, "v", false, "report progress of each step")
	flags.Bool(dryRunToken, false, "list the keys that would be deleted and stop before changing anything")
	flags.Bool(keepGoingToken, false, "attempt every stale key deletion even after one fails")
	flags.Duration(timeoutToken, 0, "time limit for each call to AWS (0 waits forever)")

	for _, name := range []string{
		profileToken,
		credFileToken,
		regionToken,
		verboseToken,
		dryRunToken,
		keepGoingToken,
		timeoutToken,
	} {
		cobra.CheckErr(viper.BindPFlag(name, flags.Lookup(name)))
	}

	initRotateCmd()
	initVersionCmd()
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("$HOME/.aws-rotate-key")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &notFound)) {
		cfgErr = fmt.Errorf("failed to read configuration: %w", err)
	}
}
