// Package authz is the single authorization component: one declarative
// table mapping resource and action to a predicate over the caller and the
// target entity's identity references.
package authz

import (
	"github.com/Wael-BenAbid/vfRH/internal/shared/apperror"
)

const (
	ResourceUser           = "user"
	ResourceLeave          = "leave"
	ResourceMission        = "mission"
	ResourceInternship     = "internship"
	ResourceJobApplication = "jobapplication"
	ResourceWorkHours      = "workhours"
)

const (
	ActionRead     = "read"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionComplete = "complete"
	ActionStatus   = "status"
)

// Predicate decides whether the actor may perform an action against an
// entity with the given references.
type Predicate func(actor Actor, refs Refs) bool

func AdminOnly(actor Actor, _ Refs) bool {
	return actor.IsAdmin()
}

func AdminOrReferenced(actor Actor, refs Refs) bool {
	return actor.IsAdmin() || refs.holds(actor.ID)
}

// ReferencedOnly grants only to identities the entity names. Admins get no
// shortcut: mission completion belongs to the assignee and supervisor.
func ReferencedOnly(actor Actor, refs Refs) bool {
	return refs.holds(actor.ID)
}

type ruleKey struct {
	resource string
	action   string
}

// policy is the canonical per-entity rule table. Reads are visible to admins
// and anyone the record references; mutating actions are listed per entity.
var policy = map[ruleKey]Predicate{
	{ResourceUser, ActionRead}:    AdminOrReferenced,
	{ResourceUser, ActionApprove}: AdminOnly,
	{ResourceUser, ActionReject}:  AdminOnly,
	{ResourceUser, ActionUpdate}:  AdminOrReferenced,
	{ResourceUser, ActionDelete}:  AdminOnly,

	{ResourceLeave, ActionRead}:    AdminOrReferenced,
	{ResourceLeave, ActionApprove}: AdminOnly,
	{ResourceLeave, ActionReject}:  AdminOnly,
	{ResourceLeave, ActionDelete}:  AdminOrReferenced,

	{ResourceMission, ActionRead}:     AdminOrReferenced,
	{ResourceMission, ActionComplete}: ReferencedOnly,
	{ResourceMission, ActionUpdate}:   AdminOrReferenced,
	{ResourceMission, ActionDelete}:   AdminOnly,

	{ResourceInternship, ActionRead}:   AdminOrReferenced,
	{ResourceInternship, ActionStatus}: AdminOrReferenced,
	{ResourceInternship, ActionDelete}: AdminOnly,

	{ResourceJobApplication, ActionRead}:    AdminOrReferenced,
	{ResourceJobApplication, ActionApprove}: AdminOnly,
	{ResourceJobApplication, ActionReject}:  AdminOnly,
	{ResourceJobApplication, ActionDelete}:  AdminOnly,

	{ResourceWorkHours, ActionRead}:   AdminOrReferenced,
	{ResourceWorkHours, ActionUpdate}: AdminOrReferenced,
	{ResourceWorkHours, ActionDelete}: AdminOrReferenced,
}

// Authorize evaluates the policy table. Unknown resource/action pairs deny.
func Authorize(actor Actor, resource, action string, refs Refs) error {
	pred, ok := policy[ruleKey{resource, action}]
	if !ok {
		return apperror.ErrForbidden
	}
	if !pred(actor, refs) {
		return apperror.ErrForbidden
	}
	return nil
}
