package model

import "context"

type accountKey struct{}

// WithAccount stores the current account identifier on ctx. The identifier
// comes from the upstream session collaborator; for a learner account it is
// the learner id, for a guardian account the guardian id.
func WithAccount(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountKey{}, accountID)
}

// AccountFromContext returns the current account identifier, if any.
func AccountFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountKey{}).(string)
	return id, ok && id != ""
}
