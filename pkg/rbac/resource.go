package rbac

// Resource is the closed enumeration of protected resource families.
type Resource string

const (
	ResourceUsers           Resource = "users"
	ResourceOrganizations   Resource = "organizations"
	ResourceSystemConfig    Resource = "system_config"
	ResourcePrompts         Resource = "prompts"
	ResourceDatabase        Resource = "database"
	ResourceAnalytics       Resource = "analytics"
	ResourceReports         Resource = "reports"
	ResourceAssessmentCases Resource = "assessment_cases"
)

// Action is the closed enumeration of operations on a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Permission renders a (resource, action) pair as its capability scope
// string, e.g. Permission(ResourceUsers, ActionView) == "users.view".
func Permission(resource Resource, action Action) string {
	return string(resource) + "." + string(action)
}
