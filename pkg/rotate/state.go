package rotate

// State is the progress of a single rotation.
type State int

const (
	StateInit State = iota
	StateCurrentIdentified
	StatePurged
	StateNewKeyCreated
	StateOldDeactivated
	StateConfigSwitched // terminal, success
	StateAborted        // terminal, failure
)

var stateNames = map[State]string{
	StateInit:              "init",
	StateCurrentIdentified: "current-identified",
	StatePurged:            "purged",
	StateNewKeyCreated:     "new-key-created",
	StateOldDeactivated:    "old-deactivated",
	StateConfigSwitched:    "config-switched",
	StateAborted:           "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal returns true once no further step will run.
func (s State) Terminal() bool {
	return s == StateConfigSwitched || s == StateAborted
}

// Result reports how far a rotation got. It is returned even when rotation
// fails so the caller can tell the operator what was and was not done.
type Result struct {
	State State

	// LastState is the last state reached before aborting. It equals State
	// unless State is StateAborted.
	LastState State

	Identity string
	OldKeyID string
	NewKeyID string

	// Deleted lists the stale keys that were deleted, or in a dry run, that
	// would have been deleted.
	Deleted []string

	// DeactivationErr is set when the old key could not be deactivated.
	DeactivationErr error

	DryRun bool
}

// advance moves the result to the next state.
func (r *Result) advance(s State) {
	r.State = s
	r.LastState = s
}

// abort marks the result failed and keeps the last good state.
func (r *Result) abort() {
	r.State = StateAborted
}
