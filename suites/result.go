package suites

// Result is the outcome of one test method in one run.
type Result struct {
	Checks int
	Passed int
	// Failures are rendered failure blocks, including the runtime error
	// that aborted the method, if any.
	Failures []string
}

// Run maps test method names to results.
type Run map[string]Result
