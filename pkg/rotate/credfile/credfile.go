// Package credfile provides the rotate.LocalConfig for the AWS shared
// credentials file.
package credfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/zostay/aws-rotate-key/pkg/config"
	"github.com/zostay/aws-rotate-key/pkg/secret"
)

// SessionTokenName is dropped from the profile on write. A session token
// belongs to a temporary credential and would be wrong next to a long-lived
// key.
const SessionTokenName = "aws_session_token"

// File is one profile in a shared credentials file.
type File struct {
	path    string
	profile string
}

// New returns the local config for the named profile of the file at path.
func New(path, profile string) *File {
	return &File{path, profile}
}

// Name returns "AWS shared credentials file <path>"
func (f *File) Name() string {
	return "AWS shared credentials file " + f.path
}

func (f *File) load() (*ini.File, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	return ini.Load(raw)
}

// ConfiguredKeyID returns the aws_access_key_id of the profile.
func (f *File) ConfiguredKeyID(ctx context.Context) (string, error) {
	cfg, err := f.load()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	sec, err := cfg.GetSection(f.profile)
	if err != nil {
		return "", fmt.Errorf("profile %q not found in %s", f.profile, f.path)
	}

	if !sec.HasKey(secret.AccessKeyName) {
		return "", fmt.Errorf("profile %q in %s has no %s", f.profile, f.path, secret.AccessKeyName)
	}

	return sec.Key(secret.AccessKeyName).String(), nil
}

// SetConfiguredKey stores the key pair in the profile. Other profiles and
// other settings of this profile are preserved. The file is replaced in a
// single rename, so a reader never sees half of a key pair.
func (f *File) SetConfiguredKey(ctx context.Context, key secret.AccessKey) error {
	cfg, err := f.load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = ini.Empty()
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	sec := cfg.Section(f.profile)
	sec.Key(secret.AccessKeyName).SetValue(key.ID)
	sec.Key(secret.SecretKeyName).SetValue(key.Secret)
	sec.DeleteKey(SessionTokenName)

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render %s: %w", f.path, err)
	}

	if err := replaceFile(f.path, buf.Bytes()); err != nil {
		return err
	}

	config.LoggerFrom(ctx).Sugar().Debugw(
		"wrote access key to credentials file",
		"path", f.path,
		"profile", f.profile,
		"access_key_id", key.ID,
	)

	return nil
}

// replaceFile writes data next to path and renames it into place with mode
// 0600.
func replaceFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o600); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", tmp.Name(), err)
	}

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
