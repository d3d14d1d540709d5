package membership

import (
	"context"

	"github.com/fredhutch/github-org-manager/pkg/auditlogger"
	"github.com/fredhutch/github-org-manager/pkg/github"
	"github.com/fredhutch/github-org-manager/pkg/logger"
	"github.com/fredhutch/github-org-manager/pkg/metrics"
	"github.com/google/uuid"
)

type Offboarder interface {
	Offboard(ctx context.Context, username string) (interface{}, error)
}

type offboarder struct {
	org           string
	protectedTeam string
	client        github.Client
	auditLogger   auditlogger.AuditLogger
	log           logger.Logger
}

func NewOffboarder(org, protectedTeam string, client github.Client, auditLogger auditlogger.AuditLogger, log logger.Logger) Offboarder {
	return &offboarder{
		org:           org,
		protectedTeam: protectedTeam,
		client:        client,
		auditLogger:   auditLogger,
		log:           log,
	}
}

// Offboard removes username from every team in the organization and then from
// the organization itself. Team removals are best effort: a failed one is
// logged and skipped, and the org removal still runs. The org removal alone
// decides the reported status.
func (o *offboarder) Offboard(ctx context.Context, username string) (interface{}, error) {
	correlationID := uuid.New()
	log := o.log.WithCorrelationID(correlationID).WithUser(username)

	teams, err := o.client.ListTeams(ctx, o.org)
	if err != nil {
		return nil, err
	}

	onTeams, err := o.memberships(ctx, teams, username)
	if err != nil {
		return nil, err
	}

	for _, team := range onTeams {
		result, err := o.client.RemoveTeamMembership(ctx, team.ID, username)
		if err != nil {
			log.WithTeam(team.Name).Warnf("unable to remove '%s' from team '%s': %s", username, team.Name, err)
			continue
		}
		if result.Kind != github.KindSuccess {
			log.WithTeam(team.Name).Warnf("unable to remove '%s' from team '%s': status %d", username, team.Name, result.StatusCode)
			continue
		}

		o.auditLogger.Logf(OpRemoveTeamMember, correlationID, username, team.Name, "removed '%s' from team '%s'", username, team.Name)
	}

	result, err := o.client.RemoveMembership(ctx, o.org, username)
	if err != nil {
		return nil, err
	}

	switch result.Kind {
	case github.KindSuccess:
		o.auditLogger.Logf(OpRemoveMember, correlationID, username, "", "removed '%s' from organization '%s'", username, o.org)
		metrics.IncOffboardings("ok")
		return true, nil
	case github.KindNotFound:
		metrics.IncOffboardings("not-a-member")
		return StatusNotAMember, nil
	default:
		log.Errorf("unexpected status %d from membership removal", result.StatusCode)
		metrics.IncOffboardings("error")
		return StatusError, nil
	}
}

// memberships returns the teams username belongs to, in any role, with the
// externally synced protected team filtered out before anything is mutated.
func (o *offboarder) memberships(ctx context.Context, teams []github.Team, username string) ([]github.Team, error) {
	onTeams := make([]github.Team, 0)
	for _, team := range teams {
		result, err := o.client.GetTeamMembership(ctx, team.ID, username)
		if err != nil {
			return nil, err
		}
		if result.Kind != github.KindSuccess {
			continue
		}

		if team.Name == o.protectedTeam {
			o.log.WithUser(username).WithTeam(team.Name).Infof("membership is synced by an external webhook, leaving it alone")
			continue
		}

		onTeams = append(onTeams, team)
	}

	return onTeams, nil
}
