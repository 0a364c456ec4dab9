package service

import (
	"fmt"
	"sync"

	"unihealth-admin/internal/domain/entity"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/sirupsen/logrus"
)

// Policy objects that are not settings categories
const (
	ObjectAffiliations = "affiliations"
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && (p.act == "*" || r.act == p.act)
`

// CategoryObject is the policy object guarding a settings category
func CategoryObject(id entity.CategoryID) string {
	return "settings:" + string(id)
}

// PolicyService answers whether a role may use a console area. Its rules are
// generated from the category allow-sets, so the navigation filter and the
// server-side check never disagree.
type PolicyService interface {
	CanAccessCategory(role entity.UserRole, id entity.CategoryID) bool
	Check(role entity.UserRole, object, action string) (bool, error)
}

type policyService struct {
	enforcer *casbin.Enforcer
	log      *logrus.Logger
	mu       sync.RWMutex
}

func NewPolicyService(log *logrus.Logger) (PolicyService, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("policy: failed to parse model: %w", err)
	}

	enf, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("policy: failed to initialize enforcer: %w", err)
	}

	for _, category := range entity.SettingsCategories() {
		for _, role := range category.AllowedRoles {
			if _, err := enf.AddPolicy(role.String(), CategoryObject(category.ID), "*"); err != nil {
				return nil, fmt.Errorf("policy: failed to add rule for %s: %w", category.ID, err)
			}
		}
	}
	for _, role := range entity.UserRoles() {
		if _, err := enf.AddPolicy(role.String(), ObjectAffiliations, "*"); err != nil {
			return nil, fmt.Errorf("policy: failed to add rule for %s: %w", ObjectAffiliations, err)
		}
	}

	return &policyService{
		enforcer: enf,
		log:      log,
	}, nil
}

func (s *policyService) CanAccessCategory(role entity.UserRole, id entity.CategoryID) bool {
	allowed, err := s.Check(role, CategoryObject(id), "read")
	if err != nil {
		s.log.Warnf("Failed to evaluate category policy: %+v", err)
		return false
	}
	return allowed
}

func (s *policyService) Check(role entity.UserRole, object, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(role.String(), object, action)
	if err != nil {
		return false, fmt.Errorf("policy: enforce failed: %w", err)
	}
	return allowed, nil
}
