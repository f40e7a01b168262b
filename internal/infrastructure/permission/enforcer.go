package permission

import (
	"fmt"
	"sort"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

const (
	RoleOperator   = "operator"
	RoleSupervisor = "supervisor"
)

// Resources and actions checked by the HTTP layer.
const (
	ResourceTransfer   = "transfer"
	ResourceQueue      = "queue"
	ResourceAssignment = "assignment"

	ActionRequest    = "request"
	ActionRespond    = "respond"
	ActionCancel     = "cancel"
	ActionRead       = "read"
	ActionEnqueue    = "enqueue"
	ActionAssignNext = "assign_next"
	ActionAssignFor  = "assign_for_other"
	ActionRemove     = "remove"
	ActionAutoAssign = "auto"
	ActionBulkAssign = "bulk"
	// respond to or cancel a transfer the caller is not party to
	ActionRespondAny = "respond_any"
	ActionCancelAny  = "cancel_any"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

var defaultPolicies = [][]string{
	{RoleOperator, ResourceTransfer, ActionRequest},
	{RoleOperator, ResourceTransfer, ActionRespond},
	{RoleOperator, ResourceTransfer, ActionCancel},
	{RoleOperator, ResourceTransfer, ActionRead},
	{RoleOperator, ResourceQueue, ActionEnqueue},
	{RoleOperator, ResourceQueue, ActionRead},
	{RoleOperator, ResourceQueue, ActionAssignNext},
	{RoleOperator, ResourceQueue, ActionRemove},
	{RoleOperator, ResourceAssignment, ActionAutoAssign},
	{RoleSupervisor, ResourceTransfer, ActionRespondAny},
	{RoleSupervisor, ResourceTransfer, ActionCancelAny},
	{RoleSupervisor, ResourceQueue, ActionAssignFor},
	{RoleSupervisor, ResourceAssignment, ActionBulkAssign},
}

// Enforcer answers role checks from a casbin model. Supervisors inherit
// every operator permission. With a database the supervisor grants live in
// the casbin_rule table; without one they are held in memory.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer loads the fixed role policies and grants the supervisor role to
// every id in supervisors. db may be nil.
func NewEnforcer(db *gorm.DB, supervisors []string, log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	var enforcer *casbin.Enforcer
	if db != nil {
		adapter, err := gormadapter.NewAdapterByDB(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
		}
		enforcer, err = casbin.NewEnforcer(m, adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, fmt.Errorf("failed to load policy: %w", err)
		}
	} else {
		enforcer, err = casbin.NewEnforcer(m)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
	}

	if _, err := enforcer.AddPoliciesEx(defaultPolicies); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	grants := [][]string{{RoleSupervisor, RoleOperator}}
	for _, id := range supervisors {
		grants = append(grants, []string{id, RoleSupervisor})
	}
	if _, err := enforcer.AddGroupingPoliciesEx(grants); err != nil {
		return nil, fmt.Errorf("failed to load role grants: %w", err)
	}

	log.Infow("permission enforcer ready",
		"persistent", db != nil,
		"configured_supervisors", len(supervisors))

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

// RoleOf returns the role granted to an operator id.
func (e *Enforcer) RoleOf(operatorID string) string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ok, err := e.enforcer.HasGroupingPolicy(operatorID, RoleSupervisor)
	if err != nil {
		e.logger.Warnw("role lookup failed", "operator_id", operatorID, "error", err)
		return RoleOperator
	}
	if ok {
		return RoleSupervisor
	}
	return RoleOperator
}

// PromoteSupervisor grants the supervisor role. Granting twice is a no-op.
func (e *Enforcer) PromoteSupervisor(operatorID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.enforcer.AddGroupingPolicy(operatorID, RoleSupervisor); err != nil {
		e.logger.Errorw("failed to grant supervisor", "operator_id", operatorID, "error", err)
		return fmt.Errorf("failed to grant supervisor: %w", err)
	}
	return nil
}

// DemoteSupervisor revokes the supervisor role. Revoking a missing grant is a no-op.
func (e *Enforcer) DemoteSupervisor(operatorID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.enforcer.RemoveGroupingPolicy(operatorID, RoleSupervisor); err != nil {
		e.logger.Errorw("failed to revoke supervisor", "operator_id", operatorID, "error", err)
		return fmt.Errorf("failed to revoke supervisor: %w", err)
	}
	return nil
}

// Supervisors lists the operator ids holding the supervisor role.
func (e *Enforcer) Supervisors() ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	users, err := e.enforcer.GetUsersForRole(RoleSupervisor)
	if err != nil {
		return nil, fmt.Errorf("failed to list supervisors: %w", err)
	}
	sort.Strings(users)
	return users, nil
}

func (e *Enforcer) Enforce(role, resource, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}
