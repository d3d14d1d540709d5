package compliance

import (
	"context"
	"encoding/json"

	"github.com/fredhutch/github-org-manager/pkg/github"
	"github.com/fredhutch/github-org-manager/pkg/logger"
)

type Auditor interface {
	// FindUnnamedMembers sweeps every member of the organization and returns
	// the logins of those without a full name in their profile. Read-only.
	FindUnnamedMembers(ctx context.Context) ([]string, error)

	// NagUnnamedMembers runs the sweep and files a nag issue for each hit.
	NagUnnamedMembers(ctx context.Context) ([]string, error)
}

type auditor struct {
	org      string
	client   github.Client
	notifier Notifier
	log      logger.Logger
}

// NewAuditor notifier may be nil, in which case NagUnnamedMembers degrades to
// the plain sweep.
func NewAuditor(org string, client github.Client, notifier Notifier, log logger.Logger) Auditor {
	return &auditor{
		org:      org,
		client:   client,
		notifier: notifier,
		log:      log,
	}
}

func (a *auditor) FindUnnamedMembers(ctx context.Context) ([]string, error) {
	items, err := a.client.FetchAll(ctx, a.client.MembersURL(a.org))
	if err != nil {
		return nil, err
	}

	unnamed := make([]string, 0)
	for _, item := range items {
		member := github.User{}
		err = json.Unmarshal(item, &member)
		if err != nil {
			return nil, err
		}

		// the member list only carries the login, the name lives on the full
		// profile
		profile, err := a.client.GetUser(ctx, member.Login)
		if err != nil {
			return nil, err
		}

		if profile.Name == "" {
			a.log.WithUser(profile.Login).Infof("member has no full name set")
			unnamed = append(unnamed, profile.Login)
		}
	}

	return unnamed, nil
}

func (a *auditor) NagUnnamedMembers(ctx context.Context) ([]string, error) {
	unnamed, err := a.FindUnnamedMembers(ctx)
	if err != nil {
		return nil, err
	}

	if a.notifier == nil {
		return unnamed, nil
	}

	for _, username := range unnamed {
		err = a.notifier.Nag(ctx, username)
		if err != nil {
			a.log.WithUser(username).Warnf("unable to file nag issue: %s", err)
		}
	}

	return unnamed, nil
}
