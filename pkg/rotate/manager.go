package rotate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zostay/aws-rotate-key/pkg/config"
	errs "github.com/zostay/aws-rotate-key/pkg/errors"
	"github.com/zostay/aws-rotate-key/pkg/secret"
)

// Manager provides the business logic for rotating the access key configured
// in the local configuration. It drives the Client through each step, in
// order, and stops at the first fatal failure.
type Manager struct {
	client Client

	verbose   bool
	dryRun    bool
	keepGoing bool

	timeout time.Duration
}

// New constructs a new object to perform access key rotation.
func New(
	c Client,
	opts config.Rotation,
) *Manager {
	return &Manager{
		client:    c,
		verbose:   opts.Verbose,
		dryRun:    opts.DryRun,
		keepGoing: opts.KeepGoing,
		timeout:   opts.Timeout,
	}
}

// progress reports a step. Progress is logged at info level only on a verbose
// run. Otherwise, it is debug level.
func (m *Manager) progress(ctx context.Context, msg string, kv ...any) {
	logger := config.LoggerFrom(ctx).Sugar()
	kv = append(kv, "client", m.client.Name())
	if m.verbose {
		logger.Infow(msg, kv...)
	} else {
		logger.Debugw(msg, kv...)
	}
}

// call runs a single call to the client, bounded by the timeout, if one is
// configured. Running out of time is reported as a TimeoutError.
func (m *Manager) call(
	ctx context.Context,
	op string,
	run func(context.Context) error,
) error {
	if m.timeout <= 0 {
		return run(ctx)
	}

	callCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := run(callCtx)
	if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Timeout: m.timeout, Err: err}
	}
	return err
}

// identifyCurrentKey remembers the key in use locally and who it belongs to.
func (m *Manager) identifyCurrentKey(ctx context.Context, res *Result) error {
	var current string
	err := m.call(ctx, "get configured key", func(ctx context.Context) error {
		var err error
		current, err = m.client.ConfiguredKeyID(ctx)
		return err
	})
	if err != nil {
		return &LookupError{
			Err: fmt.Errorf("failed to read configured access key: %w", err),
		}
	}

	if current == "" {
		return &LookupError{
			Err: errors.New("no access key is configured"),
		}
	}

	var identity string
	err = m.call(ctx, "get caller identity", func(ctx context.Context) error {
		var err error
		identity, err = m.client.Identity(ctx)
		return err
	})
	if err != nil {
		return &LookupError{
			Err: fmt.Errorf("failed to reach credential service as access key %q: %w", current, err),
		}
	}

	res.OldKeyID = current
	res.Identity = identity
	res.advance(StateCurrentIdentified)

	m.progress(ctx, "current access key identified",
		"access_key_id", current,
		"identity", identity,
	)

	return nil
}

// purgeKeys deletes every key held by the identity except the current one. A
// previous run that failed partway may have left a key behind, and the
// credential service will refuse to create a new key if the identity already
// holds the maximum number.
func (m *Manager) purgeKeys(ctx context.Context, res *Result) error {
	var keys []secret.Metadata
	err := m.call(ctx, "list access keys", func(ctx context.Context) error {
		var err error
		keys, err = m.client.ListKeys(ctx)
		return err
	})
	if err != nil {
		return &LookupError{
			Err: fmt.Errorf("failed to list access keys for %q: %w", res.Identity, err),
		}
	}

	found := false
	for _, key := range keys {
		if key.ID == res.OldKeyID {
			found = true
			break
		}
	}

	// Deleting every key but one we don't hold would delete whichever key
	// we actually authenticate with.
	if !found {
		return &LookupError{
			Err: fmt.Errorf("configured access key %q is not among the %d keys held by %q", res.OldKeyID, len(keys), res.Identity),
		}
	}

	if len(keys) == 1 {
		m.progress(ctx, "no stale access keys to purge",
			"access_key_id", res.OldKeyID,
		)
		res.advance(StatePurged)
		return nil
	}

	var collected errs.Collector
	for _, key := range keys {
		if key.ID == res.OldKeyID {
			continue
		}

		if m.dryRun {
			m.progress(ctx, "dry run: stale access key would be deleted",
				"access_key_id", key.ID,
				"status", string(key.Status),
				"create_date", key.CreateDate,
			)
			res.Deleted = append(res.Deleted, key.ID)
			continue
		}

		m.progress(ctx, "deleting stale access key",
			"access_key_id", key.ID,
			"status", string(key.Status),
			"create_date", key.CreateDate,
		)

		id := key.ID
		err := m.call(ctx, "delete access key", func(ctx context.Context) error {
			return m.client.DeleteKey(ctx, id)
		})
		if err != nil {
			derr := &DeletionError{KeyID: id, Err: err}
			if !m.keepGoing {
				return derr
			}

			config.LoggerFrom(ctx).Sugar().Errorw(
				"failed to delete stale access key; continuing with the rest",
				"access_key_id", id,
				"error", err,
			)
			collected.Add(derr)
			continue
		}

		res.Deleted = append(res.Deleted, id)
	}

	if err := collected.Err(); err != nil {
		return err
	}

	res.advance(StatePurged)
	return nil
}

// createKey asks the credential service for a new key.
func (m *Manager) createKey(ctx context.Context, res *Result) (secret.AccessKey, error) {
	var key secret.AccessKey
	err := m.call(ctx, "create access key", func(ctx context.Context) error {
		var err error
		key, err = m.client.CreateKey(ctx)
		return err
	})
	if err != nil {
		return secret.AccessKey{}, &CreationError{Err: err}
	}

	if key.ID == "" || key.Secret == "" {
		return secret.AccessKey{}, &CreationError{
			Err: errors.New("credential service returned an incomplete access key"),
		}
	}

	res.NewKeyID = key.ID
	res.advance(StateNewKeyCreated)

	m.progress(ctx, "new access key created",
		"access_key_id", key.ID,
	)

	return key, nil
}

// deactivateOldKey marks the old key inactive. Failure is reported but never
// stops the rotation: the new key already works and an old key left active is
// no lockout.
func (m *Manager) deactivateOldKey(ctx context.Context, res *Result) {
	err := m.call(ctx, "deactivate access key", func(ctx context.Context) error {
		return m.client.SetKeyStatus(ctx, res.OldKeyID, secret.StatusInactive)
	})
	if err != nil {
		res.DeactivationErr = &DeactivationError{KeyID: res.OldKeyID, Err: err}
		config.LoggerFrom(ctx).Sugar().Warnw(
			"old access key could not be deactivated; it can be deactivated manually",
			"access_key_id", res.OldKeyID,
			"error", err,
		)
	} else {
		m.progress(ctx, "old access key deactivated",
			"access_key_id", res.OldKeyID,
		)
	}

	res.advance(StateOldDeactivated)
}

// switchConfig writes the new key to the local configuration. Once this
// succeeds, the old secret is gone from the local configuration for good.
func (m *Manager) switchConfig(ctx context.Context, res *Result, key secret.AccessKey) error {
	err := m.call(ctx, "write local configuration", func(ctx context.Context) error {
		return m.client.SetConfiguredKey(ctx, key)
	})
	if err != nil {
		return &ConfigWriteError{KeyID: key.ID, Err: err}
	}

	res.advance(StateConfigSwitched)

	m.progress(ctx, "local configuration switched to new access key",
		"access_key_id", key.ID,
	)

	return nil
}

// RotateKey runs the rotation workflow. It returns a Result describing how far
// the rotation got and, if a fatal step failed, the error for that step.
//
// Steps, in order:
//
//  1. Identify the access key in the local configuration.
//  2. Delete every other key the identity holds.
//  3. Create a new key.
//  4. Deactivate the old key, then write the new key to the local
//     configuration.
//
// A dry run stops after step 2 without deleting anything.
func (m *Manager) RotateKey(ctx context.Context) (*Result, error) {
	logger := config.LoggerFrom(ctx).Sugar()
	res := &Result{DryRun: m.dryRun}

	abort := func(err error) (*Result, error) {
		res.abort()
		logger.Errorw(
			"access key rotation aborted",
			"client", m.client.Name(),
			"last_state", res.LastState.String(),
			"error", err,
		)
		return res, err
	}

	if err := m.identifyCurrentKey(ctx, res); err != nil {
		return abort(err)
	}

	if err := m.purgeKeys(ctx, res); err != nil {
		return abort(err)
	}

	if m.dryRun {
		m.progress(ctx, "dry run: stopping before a new access key is created",
			"access_key_id", res.OldKeyID,
			"would_delete", len(res.Deleted),
		)
		return res, nil
	}

	key, err := m.createKey(ctx, res)
	if err != nil {
		return abort(err)
	}

	m.deactivateOldKey(ctx, res)

	if err := m.switchConfig(ctx, res, key); err != nil {
		return abort(err)
	}

	m.progress(ctx, "access key rotated",
		"old_access_key_id", res.OldKeyID,
		"new_access_key_id", res.NewKeyID,
	)

	return res, nil
}
