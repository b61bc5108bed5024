package authz_test

import (
	"testing"

	"github.com/Wael-BenAbid/vfRH/internal/authz"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize_AdminOnlyActions(t *testing.T) {
	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	super := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee, Superuser: true}
	employee := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}

	for _, action := range []string{authz.ActionApprove, authz.ActionReject} {
		assert.NoError(t, authz.Authorize(admin, authz.ResourceLeave, action, authz.Refs{}))
		assert.NoError(t, authz.Authorize(super, authz.ResourceLeave, action, authz.Refs{}))
		assert.Error(t, authz.Authorize(employee, authz.ResourceLeave, action, authz.Refs{}))
	}

	// even the owner cannot approve their own leave
	owner := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}
	refs := authz.Refs{Owner: owner.ID}
	assert.Error(t, authz.Authorize(owner, authz.ResourceLeave, authz.ActionApprove, refs))
}

func TestAuthorize_MissionComplete(t *testing.T) {
	assignee := authz.Actor{ID: uuid.New(), Role: authz.RoleIntern}
	supervisor := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}
	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	outsider := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}

	refs := authz.Refs{Assignee: assignee.ID, Supervisor: supervisor.ID}

	assert.NoError(t, authz.Authorize(assignee, authz.ResourceMission, authz.ActionComplete, refs))
	assert.NoError(t, authz.Authorize(supervisor, authz.ResourceMission, authz.ActionComplete, refs))
	assert.Error(t, authz.Authorize(outsider, authz.ResourceMission, authz.ActionComplete, refs))
	// completion is bound to the mission's own references, not a global role
	assert.Error(t, authz.Authorize(admin, authz.ResourceMission, authz.ActionComplete, refs))
}

func TestAuthorize_InternshipStatus(t *testing.T) {
	supervisor := authz.Actor{ID: uuid.New(), Role: authz.RoleEmployee}
	intern := authz.Actor{ID: uuid.New(), Role: authz.RoleIntern}
	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}

	// status changes pass only the supervisor reference
	refs := authz.Refs{Supervisor: supervisor.ID}

	assert.NoError(t, authz.Authorize(supervisor, authz.ResourceInternship, authz.ActionStatus, refs))
	assert.NoError(t, authz.Authorize(admin, authz.ResourceInternship, authz.ActionStatus, refs))
	assert.Error(t, authz.Authorize(intern, authz.ResourceInternship, authz.ActionStatus, refs))
}

func TestAuthorize_UnknownRuleDenies(t *testing.T) {
	admin := authz.Actor{ID: uuid.New(), Role: authz.RoleAdmin}
	assert.Error(t, authz.Authorize(admin, "payroll", authz.ActionApprove, authz.Refs{}))
	assert.Error(t, authz.Authorize(admin, authz.ResourceLeave, "archive", authz.Refs{}))

	// leave and internship have no update operation, so the pair stays unknown
	assert.Error(t, authz.Authorize(admin, authz.ResourceLeave, authz.ActionUpdate, authz.Refs{}))
	assert.Error(t, authz.Authorize(admin, authz.ResourceInternship, authz.ActionUpdate, authz.Refs{}))
}

func TestActor_IsAdmin(t *testing.T) {
	assert.True(t, authz.Actor{Role: authz.RoleAdmin}.IsAdmin())
	assert.True(t, authz.Actor{Role: authz.RoleIntern, Superuser: true}.IsAdmin())
	assert.False(t, authz.Actor{Role: authz.RoleEmployee}.IsAdmin())
}
