package authz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"

	"blogapi/internal/apperror"
	"blogapi/internal/auth"
)

type Resource string

const (
	ResourceUser Resource = "user"
	ResourcePost Resource = "post"
	ResourceTag  Resource = "tag"
	ResourceFile Resource = "file"
)

type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Enforcer answers role/resource/action questions from a static policy
// table. It is shared by all requests.
type Enforcer struct {
	mu         sync.RWMutex
	enforcer   *casbin.Enforcer
	modelPath  string
	policyPath string
}

func NewEnforcer(modelPath, policyPath string) (*Enforcer, error) {
	e, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, fmt.Errorf("load policy %s: %w", policyPath, err)
	}

	return &Enforcer{
		enforcer:   e,
		modelPath:  modelPath,
		policyPath: policyPath,
	}, nil
}

// Enforce reports whether the policy grants action on resource to role.
// Comparison is case-insensitive; engine errors count as a denial.
func (e *Enforcer) Enforce(role, resource, action string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ok, err := e.enforcer.Enforce(strings.ToLower(role), strings.ToLower(resource), strings.ToLower(action))
	if err != nil {
		slog.Error("policy evaluation failed", "role", role, "resource", resource, "action", action, "error", err)
		return false
	}

	return ok
}

// Reload rebuilds the enforcer from the files it was created with.
func (e *Enforcer) Reload() error {
	fresh, err := casbin.NewEnforcer(e.modelPath, e.policyPath)
	if err != nil {
		return fmt.Errorf("reload policy %s: %w", e.policyPath, err)
	}

	e.mu.Lock()
	e.enforcer = fresh
	e.mu.Unlock()

	return nil
}

// Authorize guards an operation. A verified identity is required; an empty
// resource lets any identity through.
func (e *Enforcer) Authorize(ctx context.Context, resource Resource, action Action) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return apperror.New(apperror.KindUnauthenticated, "authentication required")
	}

	if resource == "" {
		return nil
	}

	if !e.Enforce(claims.Role, string(resource), string(action)) {
		return apperror.New(apperror.KindUnauthorized,
			fmt.Sprintf("role %s may not %s %s", claims.Role, action, resource))
	}

	return nil
}
