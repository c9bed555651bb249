package credfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"github.com/zostay/aws-rotate-key/pkg/secret"
)

const sample = `[default]
aws_access_key_id = AKIA_OLD
aws_secret_access_key = oldsecret
aws_session_token = tok

[other]
aws_access_key_id = AKIA_OTHER
aws_secret_access_key = othersecret
region = eu-west-1
`

func writeSample(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "credentials")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600), "write sample")
	return path
}

func TestName(t *testing.T) {
	f := New("/tmp/credentials", "default")
	assert.Equal(t, "AWS shared credentials file /tmp/credentials", f.Name(), "name includes path")
}

func TestHappyConfiguredKeyID(t *testing.T) {
	path := writeSample(t)

	id, err := New(path, "default").ConfiguredKeyID(context.Background())
	assert.NoError(t, err, "no error reading default")
	assert.Equal(t, "AKIA_OLD", id, "default key")

	id, err = New(path, "other").ConfiguredKeyID(context.Background())
	assert.NoError(t, err, "no error reading other")
	assert.Equal(t, "AKIA_OTHER", id, "other key")
}

func TestSadConfiguredKeyIDMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope")

	_, err := New(path, "default").ConfiguredKeyID(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist, "missing file")
}

func TestSadConfiguredKeyIDMissingProfile(t *testing.T) {
	path := writeSample(t)

	_, err := New(path, "ci").ConfiguredKeyID(context.Background())
	assert.ErrorContains(t, err, `profile "ci" not found`, "missing profile")
}

func TestSadConfiguredKeyIDMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	require.NoError(t, os.WriteFile(path, []byte("[default]\nregion = us-east-1\n"), 0o600), "write")

	_, err := New(path, "default").ConfiguredKeyID(context.Background())
	assert.ErrorContains(t, err, "has no aws_access_key_id", "missing key")
}

func TestHappySetConfiguredKey(t *testing.T) {
	path := writeSample(t)
	f := New(path, "default")

	err := f.SetConfiguredKey(context.Background(), secret.AccessKey{ID: "AKIA_NEW", Secret: "secret123"})
	require.NoError(t, err, "no error writing")

	id, err := f.ConfiguredKeyID(context.Background())
	assert.NoError(t, err, "no error reading back")
	assert.Equal(t, "AKIA_NEW", id, "new key is configured")

	cfg, err := ini.Load(path)
	require.NoError(t, err, "file still parses")

	def := cfg.Section("default")
	assert.Equal(t, "secret123", def.Key(secret.SecretKeyName).String(), "secret stored")
	assert.False(t, def.HasKey(SessionTokenName), "session token dropped")

	other := cfg.Section("other")
	assert.Equal(t, "AKIA_OTHER", other.Key(secret.AccessKeyName).String(), "other profile kept")
	assert.Equal(t, "othersecret", other.Key(secret.SecretKeyName).String(), "other secret kept")
	assert.Equal(t, "eu-west-1", other.Key("region").String(), "other settings kept")

	fi, err := os.Stat(path)
	require.NoError(t, err, "stat")
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm(), "only the owner can read")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err, "read dir")
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestHappySetConfiguredKeyNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".aws", "credentials")
	f := New(path, "ci")

	err := f.SetConfiguredKey(context.Background(), secret.AccessKey{ID: "AKIA_NEW", Secret: "secret123"})
	require.NoError(t, err, "no error writing")

	id, err := f.ConfiguredKeyID(context.Background())
	assert.NoError(t, err, "no error reading back")
	assert.Equal(t, "AKIA_NEW", id, "new key is configured")
}

func TestSadSetConfiguredKeyUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	require.NoError(t, os.Mkdir(path, 0o700), "a directory where the file should be")

	err := New(path, "default").SetConfiguredKey(context.Background(), secret.AccessKey{ID: "AKIA_NEW", Secret: "secret123"})
	assert.Error(t, err, "cannot replace a directory")
}
