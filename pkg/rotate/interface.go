package rotate

import (
	"context"

	"github.com/zostay/aws-rotate-key/pkg/secret"
)

// KeyService is the credential service holding the identity's access keys.
// The identity is always the one the service client is authenticated as.
type KeyService interface {
	Name() string

	// Identity describes the principal whose keys are being managed.
	Identity(context.Context) (string, error)

	ListKeys(context.Context) ([]secret.Metadata, error)
	DeleteKey(context.Context, string) error
	CreateKey(context.Context) (secret.AccessKey, error)
	SetKeyStatus(context.Context, string, secret.Status) error
}

// LocalConfig is the stored key pair the calling environment authenticates
// with.
type LocalConfig interface {
	Name() string

	ConfiguredKeyID(context.Context) (string, error)
	SetConfiguredKey(context.Context, secret.AccessKey) error
}

// Client is everything the rotation workflow talks to.
type Client interface {
	KeyService
	LocalConfig
}

// joined is the Client returned by Join.
type joined struct {
	KeyService
	local LocalConfig
}

// Join builds a Client from a credential service and a local configuration.
func Join(ks KeyService, lc LocalConfig) Client {
	return &joined{ks, lc}
}

// Name names both halves.
func (j *joined) Name() string {
	return j.KeyService.Name() + " via " + j.local.Name()
}

// ConfiguredKeyID asks the local configuration.
func (j *joined) ConfiguredKeyID(ctx context.Context) (string, error) {
	return j.local.ConfiguredKeyID(ctx)
}

// SetConfiguredKey writes the local configuration.
func (j *joined) SetConfiguredKey(ctx context.Context, k secret.AccessKey) error {
	return j.local.SetConfiguredKey(ctx, k)
}
