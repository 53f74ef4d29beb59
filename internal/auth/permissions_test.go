package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCoversEveryRole(t *testing.T) {
	for _, role := range Roles() {
		_, ok := rolePermissions[role]
		require.True(t, ok, "role %q is missing from the permission table", role)
	}

	// no stray roles in the table either
	assert.Len(t, rolePermissions, len(Roles()))
}

func TestHasPermissionConfiguredPairs(t *testing.T) {
	// every configured pair answers true
	for role, perms := range rolePermissions {
		for p := range perms {
			assert.True(t, HasPermission(role, p.Action, p.Resource),
				"role %q should have %s", role, p.Name())
		}
	}

	// every unconfigured pair answers false
	for _, role := range Roles() {
		for _, action := range allActions {
			for _, resource := range allResources {
				p := Permission{Action: action, Resource: resource}
				_, configured := rolePermissions[role][p]

				assert.Equal(t, configured, HasPermission(role, action, resource),
					"role %q permission %s", role, p.Name())
			}
		}
	}
}

func TestHasPermissionUnknownInputs(t *testing.T) {
	testCases := []struct {
		name     string
		role     Role
		action   Action
		resource Resource
	}{
		{name: "unknown role", role: Role("superuser"), action: ActionView, resource: ResourceProjects},
		{name: "empty role", role: Role(""), action: ActionView, resource: ResourceProjects},
		{name: "unknown action", role: RoleAdmin, action: Action("destroy"), resource: ResourceProjects},
		{name: "unknown resource", role: RoleAdmin, action: ActionView, resource: Resource("zones")},
		{name: "everything unknown", role: Role("x"), action: Action("y"), resource: Resource("z")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, HasPermission(tc.role, tc.action, tc.resource))
			})
		})
	}
}

func TestAdminHasFullCrossProduct(t *testing.T) {
	for _, action := range allActions {
		for _, resource := range allResources {
			assert.True(t, HasPermission(RoleAdmin, action, resource),
				"admin should have %s.%s", resource, action)
		}
	}
}

func TestConveniencePredicates(t *testing.T) {
	testCases := []struct {
		name string
		got  bool
		want bool
	}{
		{name: "presenter can create projects", got: CanCreate(RolePresenter, ResourceProjects), want: true},
		{name: "presenter can delete projects", got: CanDelete(RolePresenter, ResourceProjects), want: true},
		{name: "presenter cannot approve projects", got: CanApprove(RolePresenter, ResourceProjects), want: false},
		{name: "presenter cannot view users", got: CanView(RolePresenter, ResourceUsers), want: false},
		{name: "reviewer can review projects", got: CanReview(RoleReviewer, ResourceProjects), want: true},
		{name: "reviewer can create reviews", got: CanCreate(RoleReviewer, ResourceReviews), want: true},
		{name: "reviewer cannot delete reviews", got: CanDelete(RoleReviewer, ResourceReviews), want: false},
		{name: "coordinator can approve projects", got: CanApprove(RoleCoordinator, ResourceProjects), want: true},
		{name: "coordinator can export reports", got: CanExport(RoleCoordinator, ResourceReports), want: true},
		{name: "coordinator cannot edit users", got: CanEdit(RoleCoordinator, ResourceUsers), want: false},
		{name: "guest can view projects", got: CanView(RoleGuest, ResourceProjects), want: true},
		{name: "guest cannot create anything", got: CanCreate(RoleGuest, ResourceProjects), want: false},
		{name: "guest cannot view settings", got: CanView(RoleGuest, ResourceSettings), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestPermissionsStableOrder(t *testing.T) {
	first := Permissions(RoleReviewer)
	second := Permissions(RoleReviewer)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	// sorted by name
	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Name(), first[i].Name())
	}
}

func TestPermissionsUnknownRole(t *testing.T) {
	assert.Nil(t, Permissions(Role("nobody")))
}

func TestRoleValid(t *testing.T) {
	for _, role := range Roles() {
		assert.True(t, role.Valid())
	}

	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("Admin").Valid())
}

func TestPermissionName(t *testing.T) {
	p := Permission{Action: ActionCreate, Resource: ResourceProjects}
	assert.Equal(t, "projects.create", p.Name())
}
