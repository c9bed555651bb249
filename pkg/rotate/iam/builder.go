package iam

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/sts"
)

// NewFromProfile constructs a client that authenticates with the named profile
// of the given shared credentials file and nothing else. Environment
// credentials are never consulted, so the key being rotated is always the key
// doing the rotating.
func NewFromProfile(credentialsFile, profile, region string) (*Client, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewSharedCredentials(credentialsFile, profile),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start AWS session for profile %q: %w", profile, err)
	}

	return New(iam.New(sess), sts.New(sess)), nil
}
