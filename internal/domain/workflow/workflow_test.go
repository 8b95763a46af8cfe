package workflow

import (
	"testing"

	"dealflow/internal/domain/entities"
	"dealflow/pkg"

	"github.com/stretchr/testify/require"
)

const ownerID = "user-1"

func actorOf(role entities.ActorRole) entities.Actor {
	return entities.Actor{ID: ownerID, Role: role}
}

func TestLeadMachine_HappyPath(t *testing.T) {
	steps := []struct {
		from, to string
		actor    entities.Actor
		patch    Patch
		action   string
	}{
		{string(entities.LeadStatusNew), string(entities.LeadStatusPendingReview), actorOf(entities.RoleSale), Patch{}, "send_to_presale"},
		{string(entities.LeadStatusPendingReview), string(entities.LeadStatusReviewing), actorOf(entities.RolePreSale), Patch{}, "start_review"},
		{string(entities.LeadStatusReviewing), string(entities.LeadStatusPendingEstimation), actorOf(entities.RolePreSale), Patch{ProjectOverview: "scope"}, "complete_review"},
		{string(entities.LeadStatusPendingEstimation), string(entities.LeadStatusEstimated), actorOf(entities.RoleTechLead), Patch{EstimateID: "est-1"}, "approve"},
	}

	for _, step := range steps {
		edge, err := LeadMachine.Authorize(step.from, step.to, step.actor, ownerID, step.patch)
		require.NoError(t, err, "%s -> %s", step.from, step.to)
		require.Equal(t, step.action, edge.Action)
	}
}

func TestAuthorize_UnlistedTransitionsDenied(t *testing.T) {
	admin := entities.Actor{ID: "root", Role: entities.RoleAdmin}

	machines := []struct {
		machine  Machine
		statuses []string
	}{
		{LeadMachine, []string{
			string(entities.LeadStatusNew),
			string(entities.LeadStatusPendingReview),
			string(entities.LeadStatusReviewing),
			string(entities.LeadStatusPendingEstimation),
			string(entities.LeadStatusEstimated),
		}},
		{RequestMachine, []string{
			string(entities.RequestStatusNew),
			string(entities.RequestStatusPendingReview),
			string(entities.RequestStatusReviewing),
			string(entities.RequestStatusPendingEstimation),
			string(entities.RequestStatusPreSaleReview),
			string(entities.RequestStatusSaleReview),
			string(entities.RequestStatusAccepted),
			string(entities.RequestStatusEstimated),
			string(entities.RequestStatusContract),
			string(entities.RequestStatusRejected),
		}},
		{ProjectMachine, []string{
			string(entities.ProjectStatusNew),
			string(entities.ProjectStatusActive),
			string(entities.ProjectStatusPaused),
			string(entities.ProjectStatusFinished),
		}},
	}

	// Even admin is denied on pairs the table does not list; the patch carries
	// every field so a denial can only mean a missing edge.
	patch := Patch{ProjectOverview: "o", RejectionReason: "r", EstimateID: "e"}
	for _, m := range machines {
		listed := map[[2]string]bool{}
		for _, e := range m.machine.Edges {
			listed[[2]string{e.From, e.To}] = true
		}
		for _, from := range m.statuses {
			for _, to := range m.statuses {
				if listed[[2]string{from, to}] {
					continue
				}
				_, err := m.machine.Authorize(from, to, admin, ownerID, patch)
				require.ErrorIs(t, err, pkg.ErrTransitionDenied, "%s %s -> %s", m.machine.Entity, from, to)
			}
		}
	}
}

func TestAuthorize_RoleGate(t *testing.T) {
	// Accepting is the Sale owner's call; PreSale drove the review but may not
	// accept on their behalf.
	_, err := RequestMachine.Authorize(
		string(entities.RequestStatusSaleReview),
		string(entities.RequestStatusAccepted),
		actorOf(entities.RolePreSale), ownerID, Patch{},
	)
	require.ErrorIs(t, err, pkg.ErrTransitionDenied)

	_, err = RequestMachine.Authorize(
		string(entities.RequestStatusSaleReview),
		string(entities.RequestStatusAccepted),
		actorOf(entities.RoleSale), ownerID, Patch{},
	)
	require.NoError(t, err)
}

func TestAuthorize_OwnershipGate(t *testing.T) {
	otherSale := entities.Actor{ID: "user-2", Role: entities.RoleSale}

	_, err := RequestMachine.Authorize(
		string(entities.RequestStatusSaleReview),
		string(entities.RequestStatusAccepted),
		otherSale, ownerID, Patch{},
	)
	require.ErrorIs(t, err, pkg.ErrTransitionDenied)
}

func TestAuthorize_AdminBypassesRoleAndOwnership(t *testing.T) {
	admin := entities.Actor{ID: "not-the-owner", Role: entities.RoleAdmin}

	edge, err := RequestMachine.Authorize(
		string(entities.RequestStatusSaleReview),
		string(entities.RequestStatusAccepted),
		admin, ownerID, Patch{},
	)
	require.NoError(t, err)
	require.Equal(t, "accept", edge.Action)
}

func TestAuthorize_RequiredFields(t *testing.T) {
	t.Run("reject needs a reason", func(t *testing.T) {
		_, err := RequestMachine.Authorize(
			string(entities.RequestStatusReviewing),
			string(entities.RequestStatusRejected),
			actorOf(entities.RolePreSale), ownerID, Patch{},
		)
		require.ErrorIs(t, err, pkg.ErrValidation)

		_, err = RequestMachine.Authorize(
			string(entities.RequestStatusReviewing),
			string(entities.RequestStatusRejected),
			actorOf(entities.RolePreSale), ownerID, Patch{RejectionReason: "out of scope"},
		)
		require.NoError(t, err)
	})

	t.Run("complete review needs an overview", func(t *testing.T) {
		_, err := LeadMachine.Authorize(
			string(entities.LeadStatusReviewing),
			string(entities.LeadStatusPendingEstimation),
			actorOf(entities.RolePreSale), ownerID, Patch{},
		)
		require.ErrorIs(t, err, pkg.ErrValidation)
	})

	t.Run("approve needs an estimate", func(t *testing.T) {
		_, err := LeadMachine.Authorize(
			string(entities.LeadStatusPendingEstimation),
			string(entities.LeadStatusEstimated),
			actorOf(entities.RoleTechLead), ownerID, Patch{},
		)
		require.ErrorIs(t, err, pkg.ErrValidation)
	})

	t.Run("required field binds admin too", func(t *testing.T) {
		admin := entities.Actor{ID: "root", Role: entities.RoleAdmin}
		_, err := RequestMachine.Authorize(
			string(entities.RequestStatusReviewing),
			string(entities.RequestStatusRejected),
			admin, ownerID, Patch{},
		)
		require.ErrorIs(t, err, pkg.ErrValidation)
	})
}

func TestRequestMachine_BothContractEdges(t *testing.T) {
	for _, from := range []string{
		string(entities.RequestStatusAccepted),
		string(entities.RequestStatusEstimated),
	} {
		edge, err := RequestMachine.Authorize(from, string(entities.RequestStatusContract), actorOf(entities.RoleSale), ownerID, Patch{})
		require.NoError(t, err, "from %s", from)
		require.Equal(t, "convert_to_contract", edge.Action)
	}
}

func TestRequestMachine_ResubmitOnlyExitFromRejected(t *testing.T) {
	edge, err := RequestMachine.Authorize(
		string(entities.RequestStatusRejected),
		string(entities.RequestStatusPendingReview),
		actorOf(entities.RoleSale), ownerID, Patch{},
	)
	require.NoError(t, err)
	require.Equal(t, "resubmit", edge.Action)

	for _, e := range RequestMachine.Edges {
		if e.From == string(entities.RequestStatusRejected) {
			require.Equal(t, string(entities.RequestStatusPendingReview), e.To)
		}
	}
}

func TestProjectMachine_PauseResumeCycle(t *testing.T) {
	pm := actorOf(entities.RolePM)

	_, err := ProjectMachine.Authorize(string(entities.ProjectStatusNew), string(entities.ProjectStatusActive), pm, "", Patch{})
	require.NoError(t, err)

	_, err = ProjectMachine.Authorize(string(entities.ProjectStatusActive), string(entities.ProjectStatusPaused), pm, "", Patch{})
	require.NoError(t, err)

	_, err = ProjectMachine.Authorize(string(entities.ProjectStatusPaused), string(entities.ProjectStatusActive), pm, "", Patch{})
	require.NoError(t, err)

	// Finished is terminal.
	for _, to := range []string{
		string(entities.ProjectStatusNew),
		string(entities.ProjectStatusActive),
		string(entities.ProjectStatusPaused),
	} {
		_, err = ProjectMachine.Authorize(string(entities.ProjectStatusFinished), to, pm, "", Patch{})
		require.ErrorIs(t, err, pkg.ErrTransitionDenied)
	}
}
