// Package rotate provides the business logic for rotating the access key this
// program is itself running with. It asks the local configuration which key
// is in use, purges any other key the identity holds, asks the credential
// service for a new key, deactivates the old key, and finally writes the new
// key into the local configuration.
//
// The steps are ordered so that the original, already working key remains in
// the local configuration until the very last step. A failure at any point
// before that leaves the caller able to authenticate and safe to run again.
package rotate
