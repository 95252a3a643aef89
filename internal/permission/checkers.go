package permission

import (
	"fmt"
	"path"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
)

// Set is a flat list of granted capability paths. A grant of "*" allows
// everything.
type Set map[string]struct{}

func NewSet(granted ...string) Set {
	s := make(Set, len(granted))
	for _, g := range granted {
		if g = strings.TrimSpace(g); g != "" {
			s[g] = struct{}{}
		}
	}
	return s
}

func (s Set) Check(capability string) bool {
	if _, ok := s["*"]; ok {
		return true
	}
	_, ok := s[capability]
	return ok
}

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
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// CasbinChecker resolves capability paths against an RBAC policy. The last
// path segment is the action, the rest is the object:
// "/content/article/update" -> ("/content/article", "update").
type CasbinChecker struct {
	enforcer *casbin.Enforcer
	subject  string
}

// NewCasbinChecker loads policies from policyPath (casbin CSV). An empty path
// starts with no policies; add them with Allow.
func NewCasbinChecker(policyPath, role string) (*CasbinChecker, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("permission: load model: %w", err)
	}
	var enforcer *casbin.Enforcer
	if strings.TrimSpace(policyPath) == "" {
		enforcer, err = casbin.NewEnforcer(m)
	} else {
		enforcer, err = casbin.NewEnforcer(m, fileadapter.NewAdapter(policyPath))
	}
	if err != nil {
		return nil, fmt.Errorf("permission: new enforcer: %w", err)
	}
	return &CasbinChecker{enforcer: enforcer, subject: SubjectFromRole(role)}, nil
}

// SubjectFromRole normalises a role name into a casbin subject.
func SubjectFromRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = "anonymous"
	}
	return "role:" + role
}

// Allow grants action on object to role.
func (c *CasbinChecker) Allow(role, object, action string) error {
	_, err := c.enforcer.AddPolicy(SubjectFromRole(role), object, action)
	return err
}

func (c *CasbinChecker) Check(capability string) bool {
	object, action := splitCapability(capability)
	if action == "" {
		return false
	}
	ok, err := c.enforcer.Enforce(c.subject, object, action)
	if err != nil {
		return false
	}
	return ok
}

func splitCapability(capability string) (object, action string) {
	capability = strings.TrimSpace(capability)
	if capability == "" {
		return "", ""
	}
	return path.Dir(capability), path.Base(capability)
}
