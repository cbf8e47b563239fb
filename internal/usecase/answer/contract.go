package answer

import "context"

// Generator is the external answer-generation collaborator. It consumes the
// assembled context and the question; the engine has no dependency back.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
