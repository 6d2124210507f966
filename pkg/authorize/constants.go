package authorize

import "github.com/Alijeyrad/dentalcenter/internal/model"

type Action string
type Resource string
type Role string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// ActionManage grants every other action on the resource.
	ActionManage Action = "manage"

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	ResourcePatient      Resource = "patient"
	ResourceIncident     Resource = "incident"
	ResourceAttachment   Resource = "attachment"
	ResourceDashboard    Resource = "dashboard"
	ResourceCalendar     Resource = "calendar"
	ResourceOwnDashboard Resource = "own_dashboard"
)

var KnownResources = map[Resource]struct{}{
	ResourcePatient: {}, ResourceIncident: {}, ResourceAttachment: {},
	ResourceDashboard: {}, ResourceCalendar: {}, ResourceOwnDashboard: {},
}

// ----------------------------
// Roles
// ----------------------------

// Casbin subjects are the account roles themselves.
const (
	RoleAdmin   = Role(model.RoleAdmin)
	RolePatient = Role(model.RolePatient)
)

var KnownRoles = map[Role]struct{}{
	RoleAdmin:   {},
	RolePatient: {},
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// Permission rows: p, role, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
