// Package iam provides the rotate.KeyService for AWS IAM. Every call is made
// without naming a user, so IAM acts on the user the session is authenticated
// as.
package iam

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/iam/iamiface"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"

	"github.com/zostay/aws-rotate-key/pkg/config"
	"github.com/zostay/aws-rotate-key/pkg/secret"
)

// Client implements the rotate.KeyService interface.
type Client struct {
	svcIam iamiface.IAMAPI
	svcSts stsiface.STSAPI
}

// New returns a client using the given service clients.
func New(svcIam iamiface.IAMAPI, svcSts stsiface.STSAPI) *Client {
	return &Client{svcIam, svcSts}
}

// describe adds the AWS error code to the message, when there is one. The
// codes are what an operator will search for.
func describe(err error) error {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return err
	}

	switch aerr.Code() {
	case iam.ErrCodeLimitExceededException:
		return fmt.Errorf("IAM user already holds the maximum number of access keys (%s): %w", aerr.Code(), err)
	case iam.ErrCodeNoSuchEntityException:
		return fmt.Errorf("no such IAM entity (%s): %w", aerr.Code(), err)
	}

	return err
}

// Name returns "AWS IAM"
func (c *Client) Name() string {
	return "AWS IAM"
}

// Identity returns the ARN of the caller.
func (c *Client) Identity(ctx context.Context) (string, error) {
	out, err := c.svcSts.GetCallerIdentityWithContext(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", describe(err))
	}

	return aws.StringValue(out.Arn), nil
}

// ListKeys returns the metadata for every access key held by the caller.
func (c *Client) ListKeys(ctx context.Context) ([]secret.Metadata, error) {
	var keys []secret.Metadata
	err := c.svcIam.ListAccessKeysPagesWithContext(ctx,
		&iam.ListAccessKeysInput{},
		func(page *iam.ListAccessKeysOutput, lastPage bool) bool {
			for _, akmd := range page.AccessKeyMetadata {
				keys = append(keys, secret.Metadata{
					ID:         aws.StringValue(akmd.AccessKeyId),
					Status:     secret.Status(aws.StringValue(akmd.Status)),
					CreateDate: aws.TimeValue(akmd.CreateDate),
				})
			}
			return true
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list IAM access key metadata: %w", describe(err))
	}

	config.LoggerFrom(ctx).Sugar().Debugw(
		"listed IAM access keys",
		"client", c.Name(),
		"count", len(keys),
	)

	return keys, nil
}

// DeleteKey deletes the named access key.
func (c *Client) DeleteKey(ctx context.Context, id string) error {
	_, err := c.svcIam.DeleteAccessKeyWithContext(ctx,
		&iam.DeleteAccessKeyInput{
			AccessKeyId: aws.String(id),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to delete IAM access key %q: %w", id, describe(err))
	}

	return nil
}

// CreateKey creates a new access key. This is the only time IAM will ever
// reveal the secret.
func (c *Client) CreateKey(ctx context.Context) (secret.AccessKey, error) {
	ck, err := c.svcIam.CreateAccessKeyWithContext(ctx, &iam.CreateAccessKeyInput{})
	if err != nil {
		return secret.AccessKey{}, fmt.Errorf("failed to create new IAM access key: %w", describe(err))
	}

	if ck.AccessKey == nil {
		return secret.AccessKey{}, errors.New("IAM returned no access key on create")
	}

	return secret.AccessKey{
		ID:     aws.StringValue(ck.AccessKey.AccessKeyId),
		Secret: aws.StringValue(ck.AccessKey.SecretAccessKey),
	}, nil
}

// SetKeyStatus activates or deactivates the named access key.
func (c *Client) SetKeyStatus(ctx context.Context, id string, status secret.Status) error {
	if !status.Valid() {
		return fmt.Errorf("unknown access key status %q", status)
	}

	_, err := c.svcIam.UpdateAccessKeyWithContext(ctx,
		&iam.UpdateAccessKeyInput{
			AccessKeyId: aws.String(id),
			Status:      aws.String(string(status)),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update status of IAM access key %q to %s: %w", id, status, describe(err))
	}

	return nil
}
