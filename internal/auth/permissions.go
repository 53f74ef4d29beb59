package auth

import "sort"

// Action is an operation verb applied to a resource.
type Action string

// The closed set of actions known to the permission table.
const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionReview  Action = "review"
	ActionExport  Action = "export"
)

// Resource is a named protected entity category.
type Resource string

// The closed set of resources known to the permission table.
const (
	ResourceProjects      Resource = "projects"
	ResourceUsers         Resource = "users"
	ResourceConvocatorias Resource = "convocatorias"
	ResourceReviews       Resource = "reviews"
	ResourceSettings      Resource = "settings"
	ResourceSystem        Resource = "system"
	ResourceReports       Resource = "reports"
)

// Permission is a pair of action and resource. Permissions are never created
// or destroyed at runtime.
type Permission struct {
	Action   Action
	Resource Resource
}

// Name returns the permission identifier in resource.action format
// (e.g., "projects.create").
func (p Permission) Name() string {
	return string(p.Resource) + "." + string(p.Action)
}

// allActions and allResources exist for building the admin permission set
// and for the exhaustiveness checks in tests.
var (
	allActions = []Action{
		ActionView, ActionCreate, ActionEdit, ActionDelete,
		ActionApprove, ActionReview, ActionExport,
	}

	allResources = []Resource{
		ResourceProjects, ResourceUsers, ResourceConvocatorias,
		ResourceReviews, ResourceSettings, ResourceSystem, ResourceReports,
	}
)

// rolePermissions is the fixed role to permission-set table. It is built once
// at package initialization and never mutated afterwards.
var rolePermissions = map[Role]map[Permission]struct{}{
	RoleAdmin: adminPermissions(),
	RoleCoordinator: permissionSet(
		Permission{ActionView, ResourceProjects},
		Permission{ActionCreate, ResourceProjects},
		Permission{ActionEdit, ResourceProjects},
		Permission{ActionApprove, ResourceProjects},
		Permission{ActionExport, ResourceProjects},
		Permission{ActionView, ResourceUsers},
		Permission{ActionView, ResourceConvocatorias},
		Permission{ActionCreate, ResourceConvocatorias},
		Permission{ActionEdit, ResourceConvocatorias},
		Permission{ActionView, ResourceReviews},
		Permission{ActionView, ResourceReports},
		Permission{ActionExport, ResourceReports},
	),
	RolePresenter: permissionSet(
		Permission{ActionView, ResourceProjects},
		Permission{ActionCreate, ResourceProjects},
		Permission{ActionEdit, ResourceProjects},
		Permission{ActionDelete, ResourceProjects},
		Permission{ActionView, ResourceConvocatorias},
	),
	RoleReviewer: permissionSet(
		Permission{ActionView, ResourceProjects},
		Permission{ActionReview, ResourceProjects},
		Permission{ActionView, ResourceReviews},
		Permission{ActionCreate, ResourceReviews},
		Permission{ActionEdit, ResourceReviews},
		Permission{ActionView, ResourceConvocatorias},
	),
	RoleGuest: permissionSet(
		Permission{ActionView, ResourceProjects},
		Permission{ActionView, ResourceConvocatorias},
	),
}

func permissionSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}

	return set
}

// adminPermissions grants the full action/resource cross product.
func adminPermissions() map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(allActions)*len(allResources))

	for _, a := range allActions {
		for _, r := range allResources {
			set[Permission{Action: a, Resource: r}] = struct{}{}
		}
	}

	return set
}

// HasPermission reports whether the fixed table for role contains the pair
// (action, resource). Unknown roles, actions, or resources simply yield
// false; this function never panics.
func HasPermission(role Role, action Action, resource Resource) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}

	_, ok = perms[Permission{Action: action, Resource: resource}]

	return ok
}

// CanView reports whether role may view resource.
func CanView(role Role, resource Resource) bool {
	return HasPermission(role, ActionView, resource)
}

// CanCreate reports whether role may create resource entries.
func CanCreate(role Role, resource Resource) bool {
	return HasPermission(role, ActionCreate, resource)
}

// CanEdit reports whether role may edit resource entries.
func CanEdit(role Role, resource Resource) bool {
	return HasPermission(role, ActionEdit, resource)
}

// CanDelete reports whether role may delete resource entries.
func CanDelete(role Role, resource Resource) bool {
	return HasPermission(role, ActionDelete, resource)
}

// CanApprove reports whether role may approve resource entries.
func CanApprove(role Role, resource Resource) bool {
	return HasPermission(role, ActionApprove, resource)
}

// CanReview reports whether role may review resource entries.
func CanReview(role Role, resource Resource) bool {
	return HasPermission(role, ActionReview, resource)
}

// CanExport reports whether role may export resource entries.
func CanExport(role Role, resource Resource) bool {
	return HasPermission(role, ActionExport, resource)
}

// Permissions returns the configured pairs for role, sorted by name so the
// result is stable for callers rendering menus or API responses.
func Permissions(role Role) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}

	out := make([]Permission, 0, len(perms))
	for p := range perms {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})

	return out
}
