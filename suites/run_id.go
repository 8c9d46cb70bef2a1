package suites

import "github.com/google/uuid"

// RunID identifies one invocation of the harness in reports and history.
type RunID string

func (Module) RunID() RunID {
	return RunID(uuid.NewString())
}
