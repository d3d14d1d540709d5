package membership

import (
	"context"
	"encoding/json"

	"github.com/fredhutch/github-org-manager/pkg/auditlogger"
	"github.com/fredhutch/github-org-manager/pkg/github"
	"github.com/fredhutch/github-org-manager/pkg/logger"
	"github.com/google/uuid"
)

const (
	OpInvite           = "github:org:invite-member"
	OpRemoveMember     = "github:org:delete-member"
	OpRemoveTeamMember = "github:team:delete-member"
)

const (
	StatusNotOrgMember  = "you are not an organization member"
	StatusNotAuthorized = "not authorized"
	StatusUnknown       = "unknown"
	StatusAlreadyMember = "already a member"
	StatusNotAMember    = "not a member or not authenticated"
	StatusError         = "ERROR"
)

// InviteOutcome Either a normal status (true or "already a member") or the
// provider's own error payload, passed along untouched.
type InviteOutcome struct {
	Status       interface{}
	ProviderBody json.RawMessage
}

type Service interface {
	Query(ctx context.Context, username string) (interface{}, error)
	Invite(ctx context.Context, username string) (*InviteOutcome, error)
}

type service struct {
	org         string
	client      github.Client
	auditLogger auditlogger.AuditLogger
	log         logger.Logger
}

func NewService(org string, client github.Client, auditLogger auditlogger.AuditLogger, log logger.Logger) Service {
	return &service{
		org:         org,
		client:      client,
		auditLogger: auditLogger,
		log:         log,
	}
}

// Query reports whether username is a member of the organization. Ambiguous
// provider responses are reported as "unknown", never as a definite answer.
func (s *service) Query(ctx context.Context, username string) (interface{}, error) {
	result, err := s.client.GetMembership(ctx, s.org, username)
	if err != nil {
		return nil, err
	}

	switch result.Kind {
	case github.KindSuccess:
		return true, nil
	case github.KindNotFound:
		return false, nil
	case github.KindRedirect:
		return StatusNotOrgMember, nil
	case github.KindUnauthorized:
		return StatusNotAuthorized, nil
	default:
		s.log.WithUser(username).Warnf("unexpected status %d from membership query", result.StatusCode)
		return StatusUnknown, nil
	}
}

// Invite adds username to the organization. Inviting an existing member is
// not an error; the provider reports the membership as active and we say so.
func (s *service) Invite(ctx context.Context, username string) (*InviteOutcome, error) {
	result, err := s.client.InviteMembership(ctx, s.org, username)
	if err != nil {
		return nil, err
	}

	if result.Message != "" {
		// provider-side validation error, hand the diagnostics through
		return &InviteOutcome{ProviderBody: result.Body}, nil
	}

	switch result.State {
	case "pending":
		s.auditLogger.Logf(OpInvite, uuid.New(), username, "", "invited '%s' to organization '%s'", username, s.org)
		return &InviteOutcome{Status: true}, nil
	case "active":
		return &InviteOutcome{Status: StatusAlreadyMember}, nil
	default:
		return &InviteOutcome{ProviderBody: result.Body}, nil
	}
}
