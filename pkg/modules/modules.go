package modules

import (
	"errors"
	"slices"

	"github.com/assesskit/assesskit/pkg/rbac"
)

// Module identifies a product line of the assessment platform. Organizations
// are licensed per module and users only see the modules their organization
// assigned to them.
type Module string

const (
	ModuleK12           Module = "k12"
	ModulePostSecondary Module = "post_secondary"
	ModuleTutoring      Module = "tutoring"
)

// ErrUnknownModule indicates a module identifier outside the closed set.
var ErrUnknownModule = errors.New("modules.unknown_module")

var knownModules = map[Module]struct{}{
	ModuleK12:           {},
	ModulePostSecondary: {},
	ModuleTutoring:      {},
}

// All returns every module of the platform, in stable order.
func All() []Module {
	return []Module{ModuleK12, ModulePostSecondary, ModuleTutoring}
}

// Parse validates a raw module identifier. An unknown identifier is a client
// addressing error, not a permission problem.
func Parse(raw string) (Module, error) {
	m := Module(raw)
	if _, ok := knownModules[m]; !ok {
		return "", ErrUnknownModule
	}
	return m, nil
}

// Effective computes the module set a role actually sees: operational roles
// see every module regardless of assignment, everyone else sees exactly
// what was assigned.
func Effective(role rbac.Role, assigned []Module) []Module {
	if rbac.IsOperationalRole(role) {
		return All()
	}
	return slices.Clone(assigned)
}

// Contains reports whether the set includes the module.
func Contains(set []Module, m Module) bool {
	return slices.Contains(set, m)
}
