package gate

import (
	"context"
	"slices"
)

// Policy defines authorization rules for a resource type.
// U is the user/subject type. resource is nil for list/create style checks.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// PolicyFunc adapts a predicate to Policy.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, resource any) bool

func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, resource any) bool {
	return f(ctx, user, action, resource)
}

// All allows only when every policy allows. An empty All allows.
func All[U any](policies ...Policy[U]) Policy[U] {
	return PolicyFunc[U](func(ctx context.Context, user U, action Action, resource any) bool {
		for _, p := range policies {
			if !p.Can(ctx, user, action, resource) {
				return false
			}
		}
		return true
	})
}

// Any allows when at least one policy allows. An empty Any denies.
func Any[U any](policies ...Policy[U]) Policy[U] {
	return PolicyFunc[U](func(ctx context.Context, user U, action Action, resource any) bool {
		for _, p := range policies {
			if p.Can(ctx, user, action, resource) {
				return true
			}
		}
		return false
	})
}

// Actions allows only the listed actions.
func Actions[U any](actions ...Action) Policy[U] {
	return PolicyFunc[U](func(_ context.Context, _ U, action Action, _ any) bool {
		return slices.Contains(actions, action)
	})
}

// ReadOnly allows actions that do not mutate state.
func ReadOnly[U any]() Policy[U] {
	return PolicyFunc[U](func(_ context.Context, _ U, action Action, _ any) bool {
		return action.ReadOnly()
	})
}
