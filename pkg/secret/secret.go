// Package secret defines the values used to describe an IAM access key in the
// different contexts this program sees one:
//
// * Metadata
// * AccessKey
//
// Metadata is what the credential service will tell us about any key: its
// identifier, its status, and when it was created. It never includes the
// secret.
//
// AccessKey is the full credential pair. The service only hands one of these
// out at the moment the key is created. After that, the only copy of the
// secret is the one written to the local configuration.
package secret

import (
	"fmt"
	"time"
)

const (
	// AccessKeyName is the name the local configuration uses for the access
	// key identifier.
	AccessKeyName = "aws_access_key_id"

	// SecretKeyName is the name the local configuration uses for the secret
	// access key.
	SecretKeyName = "aws_secret_access_key"
)

// Status is the activation state of an access key.
type Status string

const (
	StatusActive   Status = "Active"   // key may be used to authenticate
	StatusInactive Status = "Inactive" // key exists, but is refused
)

// Valid returns true if the status is one the credential service knows about.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Metadata describes an access key as listed by the credential service.
type Metadata struct {
	ID         string
	Status     Status
	CreateDate time.Time
}

// AccessKey is a newly minted access key pair.
type AccessKey struct {
	ID     string
	Secret string
}

// String renders the key identifier only. The secret is never formatted so
// that an accidental log line cannot leak it.
func (k AccessKey) String() string {
	return k.ID
}

// GoString keeps %#v from printing the secret as well.
func (k AccessKey) GoString() string {
	return fmt.Sprintf("secret.AccessKey{ID:%q, Secret:<redacted>}", k.ID)
}
