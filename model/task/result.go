package task

// Result captures one sandbox execution outcome for a step.
type Result struct {
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
	ExitCode int    `json:"exitCode"`
	Success  bool   `json:"success"`
	// Output is the display text: stdout when non empty, otherwise stderr.
	Output string `json:"result,omitempty"`
	// Error holds an executor exception message when the call itself failed.
	Error string `json:"error,omitempty"`
}

// NewResult builds a Result from raw sandbox output; success is defined as
// exitCode == 0.
func NewResult(stdout, stderr string, exitCode int) *Result {
	output := stdout
	if output == "" {
		output = stderr
	}
	return &Result{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode,
		Success:  exitCode == 0,
		Output:   output,
	}
}

// NewErrorResult builds a failed Result for an executor exception; the call
// never reached the sandbox or blew up inside it.
func NewErrorResult(err error) *Result {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Result{
		ExitCode: -1,
		Success:  false,
		Output:   msg,
		Error:    msg,
	}
}
