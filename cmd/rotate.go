package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zostay/aws-rotate-key/pkg/config"
	"github.com/zostay/aws-rotate-key/pkg/rotate"
	"github.com/zostay/aws-rotate-key/pkg/rotate/credfile"
	"github.com/zostay/aws-rotate-key/pkg/rotate/iam"
)

func initRotateCmd() {
	rootCmd.AddCommand(&cobra.Command{
		Use:           "rotate",
		Short:         "rotate the AWS access key configured for a profile (the default command)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          RunRotation,
	})
}

// loadConfig builds the configuration from flags, environment, and config
// file, in that order of precedence.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := c.Prepare(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &c, nil
}

// RunRotation rotates the access key of the configured profile.
func RunRotation(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}

	c, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	logger := config.LoggerFor(c.Rotation.Verbose)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = config.WithLogger(ctx, logger)

	logger.Sugar().Debugw(
		"loaded configuration",
		"profile", c.Profile,
		"credentials_file", c.CredentialsFile,
		"region", c.Region,
		"dry_run", c.Rotation.DryRun,
		"keep_going", c.Rotation.KeepGoing,
		"timeout", c.Rotation.Timeout,
	)

	keys, err := iam.NewFromProfile(c.CredentialsFile, c.Profile, c.Region)
	if err != nil {
		return err
	}

	client := rotate.Join(keys, credfile.New(c.CredentialsFile, c.Profile))
	return rotateKey(ctx, client, c.Rotation, cmd.OutOrStdout(), color.Error)
}

// rotateKey runs the rotation and reports anything the operator must know
// about a successful run. A failed run is returned for Execute to report.
func rotateKey(
	ctx context.Context,
	client rotate.Client,
	opts config.Rotation,
	out io.Writer,
	errOut io.Writer,
) error {
	res, err := rotate.New(client, opts).RotateKey(ctx)
	if err != nil {
		return err
	}

	displayResult(res, out, errOut)
	return nil
}
