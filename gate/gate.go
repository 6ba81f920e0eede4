// Package gate is a small Gate/Policy authorization layer. A user's profile
// grants capabilities as "resource:action" permissions; resource policies
// then decide whether the user may act on a specific loaded resource.
// Policies compose with All, Any and Actions, so every operation is guarded
// the same way instead of by scattered role checks.
package gate

import (
	"context"
	"fmt"
)

// Gate combines profile permissions with resource-specific policies.
// Authorization flow:
//  1. the user must be non-zero
//  2. the user's profile must grant resource:action
//  3. if a resource is given and a policy is registered for its type, the
//     policy must allow it
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{
		resolver: resolver,
		policies: make(map[string]Policy[U]),
	}
}

// Register sets the policy for a resource type, replacing any previous one.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize returns nil, ErrUnauthenticated for the zero user, or an error
// wrapping ErrUnauthorized that names the missing permission.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	var zero U
	if user == zero {
		return ErrUnauthenticated
	}
	perm := NewPermission(resourceType, action)
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return fmt.Errorf("%w: resolve profile: %v", ErrUnauthorized, err)
	}
	if profile == nil || !profile.HasPermission(perm) {
		return fmt.Errorf("%w: missing %s", ErrUnauthorized, perm)
	}
	if resource != nil {
		if policy, ok := g.policies[resourceType]; ok && !policy.Can(ctx, user, action, resource) {
			return fmt.Errorf("%w: policy denied %s", ErrUnauthorized, perm)
		}
	}
	return nil
}

func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission, before any resource is
// loaded.
func (g *Gate[U]) CanProfile(ctx context.Context, user U, action Action, resourceType string) bool {
	return g.Authorize(ctx, user, action, resourceType, nil) == nil
}
