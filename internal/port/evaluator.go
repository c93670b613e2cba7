package port

import "context"

// EvaluateInput carries the assembled prompt sent to the model.
type EvaluateInput struct {
	Prompt            string
	SystemInstruction string
}

// EvaluateOutput contains the model's completion, returned verbatim.
type EvaluateOutput struct {
	Text      string
	ModelUsed string
}

// Evaluator abstracts a generative model that produces the evaluation report.
// Implementations send exactly one request per call and never retry.
type Evaluator interface {
	Evaluate(ctx context.Context, input EvaluateInput) (*EvaluateOutput, error)
}

// CredentialChecker is implemented by evaluators that need an API credential.
// Callers use it to fail fast before doing any other I/O.
type CredentialChecker interface {
	HasCredential() bool
}
