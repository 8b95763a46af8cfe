// Package workflow is the engagement state machine: per-entity transition
// tables gated by actor role, entity ownership, and required fields.
//
// Every transition is total: a (current status, target status, actor)
// combination not explicitly listed is denied, never coerced to the nearest
// valid state. The atomic commit itself happens at the storage layer via a
// compare-and-swap on status; this package only decides legality.
package workflow

import (
	"fmt"

	"dealflow/internal/domain/entities"
	"dealflow/pkg"
)

// Requirement names a field that must be written atomically with a
// transition.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireOverview
	RequireReason
	RequireEstimate
)

// Patch carries the fields a transition writes together with the new status.
// Only the field a transition requires is consulted; the rest stay empty.
type Patch struct {
	ProjectOverview string
	RejectionReason string
	EstimateID      string
}

// Edge is one legal transition. Admin is implicitly allowed on every edge and
// bypasses the ownership check; listing it per edge would only invite drift.
type Edge struct {
	From      string
	To        string
	Action    string
	Roles     []entities.ActorRole
	OwnerOnly bool
	Requires  Requirement
}

// Machine is the transition table for one entity type.
type Machine struct {
	Entity string
	Edges  []Edge
}

// Lead: New → Pending Review → Reviewing → Pending Estimation → Estimated.
// Estimated is terminal for the lead itself.
var LeadMachine = Machine{
	Entity: "lead",
	Edges: []Edge{
		{From: string(entities.LeadStatusNew), To: string(entities.LeadStatusPendingReview), Action: "send_to_presale", Roles: []entities.ActorRole{entities.RoleSale}, OwnerOnly: true},
		{From: string(entities.LeadStatusPendingReview), To: string(entities.LeadStatusReviewing), Action: "start_review", Roles: []entities.ActorRole{entities.RolePreSale}},
		{From: string(entities.LeadStatusReviewing), To: string(entities.LeadStatusPendingEstimation), Action: "complete_review", Roles: []entities.ActorRole{entities.RolePreSale}, Requires: RequireOverview},
		{From: string(entities.LeadStatusPendingEstimation), To: string(entities.LeadStatusEstimated), Action: "approve", Roles: []entities.ActorRole{entities.RoleTechLead}, Requires: RequireEstimate},
	},
}

// Request: the full chain with two rejection branches. "Resubmit" is the only
// path out of Rejected. Both Accepted → Contract and the legacy
// Estimated → Contract edges are kept deliberately: the observed system
// allows either, with no documented rule choosing between them.
var RequestMachine = Machine{
	Entity: "request",
	Edges: []Edge{
		{From: string(entities.RequestStatusNew), To: string(entities.RequestStatusPendingReview), Action: "send_to_presale", Roles: []entities.ActorRole{entities.RoleSale}, OwnerOnly: true},
		{From: string(entities.RequestStatusPendingReview), To: string(entities.RequestStatusReviewing), Action: "start_review", Roles: []entities.ActorRole{entities.RolePreSale}},
		{From: string(entities.RequestStatusReviewing), To: string(entities.RequestStatusPendingEstimation), Action: "complete_review", Roles: []entities.ActorRole{entities.RolePreSale}, Requires: RequireOverview},
		{From: string(entities.RequestStatusReviewing), To: string(entities.RequestStatusRejected), Action: "reject", Roles: []entities.ActorRole{entities.RolePreSale}, Requires: RequireReason},
		{From: string(entities.RequestStatusRejected), To: string(entities.RequestStatusPendingReview), Action: "resubmit", Roles: []entities.ActorRole{entities.RoleSale}, OwnerOnly: true},
		{From: string(entities.RequestStatusPendingEstimation), To: string(entities.RequestStatusPreSaleReview), Action: "approve", Roles: []entities.ActorRole{entities.RoleTechLead}, Requires: RequireEstimate},
		{From: string(entities.RequestStatusPreSaleReview), To: string(entities.RequestStatusSaleReview), Action: "send_to_sale", Roles: []entities.ActorRole{entities.RolePreSale}},
		{From: string(entities.RequestStatusPreSaleReview), To: string(entities.RequestStatusPendingEstimation), Action: "request_changes", Roles: []entities.ActorRole{entities.RolePreSale}, Requires: RequireReason},
		{From: string(entities.RequestStatusSaleReview), To: string(entities.RequestStatusAccepted), Action: "accept", Roles: []entities.ActorRole{entities.RoleSale}, OwnerOnly: true},
		{From: string(entities.RequestStatusSaleReview), To: string(entities.RequestStatusPendingEstimation), Action: "request_edit", Roles: []entities.ActorRole{entities.RoleSale}, OwnerOnly: true, Requires: RequireReason},
		{From: string(entities.RequestStatusSaleReview), To: string(entities.RequestStatusRejected), Action: "sale_reject", Roles: []entities.ActorRole{entities.RoleSale}, OwnerOnly: true, Requires: RequireReason},
		{From: string(entities.RequestStatusAccepted), To: string(entities.RequestStatusContract), Action: "convert_to_contract", Roles: []entities.ActorRole{entities.RoleSale}, OwnerOnly: true},
		{From: string(entities.RequestStatusEstimated), To: string(entities.RequestStatusContract), Action: "convert_to_contract", Roles: []entities.ActorRole{entities.RoleSale}, OwnerOnly: true},
	},
}

// Project: New → Active ⇄ Paused, Active → Finished. All edges are PM-gated,
// none is owner-gated.
var ProjectMachine = Machine{
	Entity: "project",
	Edges: []Edge{
		{From: string(entities.ProjectStatusNew), To: string(entities.ProjectStatusActive), Action: "activate", Roles: []entities.ActorRole{entities.RolePM}},
		{From: string(entities.ProjectStatusActive), To: string(entities.ProjectStatusPaused), Action: "pause", Roles: []entities.ActorRole{entities.RolePM}},
		{From: string(entities.ProjectStatusPaused), To: string(entities.ProjectStatusActive), Action: "resume", Roles: []entities.ActorRole{entities.RolePM}},
		{From: string(entities.ProjectStatusActive), To: string(entities.ProjectStatusFinished), Action: "finish", Roles: []entities.ActorRole{entities.RolePM}},
	},
}

// Authorize decides whether actor may move the entity from current to target,
// and that the patch carries the field the edge requires. It returns the
// matched edge so callers can log/notify with the action name.
//
// Checks run in a fixed order: edge existence, then role, then ownership,
// then required field. The first three deny with pkg.ErrTransitionDenied, the
// last rejects with pkg.ErrValidation.
func (m Machine) Authorize(current, target string, actor entities.Actor, ownerID string, patch Patch) (Edge, error) {
	edge, ok := m.findEdge(current, target)
	if !ok {
		return Edge{}, fmt.Errorf("%w: %s has no transition %s -> %s", pkg.ErrTransitionDenied, m.Entity, current, target)
	}

	if !actor.IsAdmin() {
		if !roleAllowed(edge.Roles, actor.Role) {
			return Edge{}, fmt.Errorf("%w: role %s may not %s a %s", pkg.ErrTransitionDenied, actor.Role, edge.Action, m.Entity)
		}
		if edge.OwnerOnly && actor.ID != ownerID {
			return Edge{}, fmt.Errorf("%w: %s %s is restricted to the creator", pkg.ErrTransitionDenied, m.Entity, edge.Action)
		}
	}

	switch edge.Requires {
	case RequireOverview:
		if patch.ProjectOverview == "" {
			return Edge{}, fmt.Errorf("%w: project overview is required to %s", pkg.ErrValidation, edge.Action)
		}
	case RequireReason:
		if patch.RejectionReason == "" {
			return Edge{}, fmt.Errorf("%w: rejection reason is required to %s", pkg.ErrValidation, edge.Action)
		}
	case RequireEstimate:
		if patch.EstimateID == "" {
			return Edge{}, fmt.Errorf("%w: an estimate must be attached to %s", pkg.ErrValidation, edge.Action)
		}
	}

	return edge, nil
}

func (m Machine) findEdge(from, to string) (Edge, bool) {
	for _, e := range m.Edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

func roleAllowed(roles []entities.ActorRole, role entities.ActorRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
