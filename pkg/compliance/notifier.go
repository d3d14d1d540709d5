package compliance

import (
	"context"
	"fmt"
	"strings"

	gogithub "github.com/google/go-github/v50/github"
	"golang.org/x/oauth2"
)

const nagBodyTemplate = `Dear @%[1]s ,

This is an automated message from %[2]s.

In order to keep better track of members of the
[%[2]s](https://github.com/orgs/%[2]s/people)
organization on GitHub, we are requiring that all
members have a full name in their GitHub profile.

You do not have a full name in your profile. Please
[edit your profile](https://github.com/settings/profile)
and add your full name.

Please make this change as soon as possible.
In future, accounts without a full name set
will be removed from the %[2]s organization
on GitHub until the full name is set.

Thank you!
`

type IssuesService interface {
	Create(ctx context.Context, owner string, repo string, issue *gogithub.IssueRequest) (*gogithub.Issue, *gogithub.Response, error)
}

type Notifier interface {
	// Nag files an issue telling username to add a full name to their
	// profile. Title and body are composed deterministically from the
	// username.
	Nag(ctx context.Context, username string) error
}

type notifier struct {
	issues IssuesService
	org    string
	owner  string
	repo   string
}

func NewNotifier(issues IssuesService, org, owner, repo string) Notifier {
	return &notifier{
		issues: issues,
		org:    org,
		owner:  owner,
		repo:   repo,
	}
}

// NewNotifierFromConfig issueRepo is an `owner/name` repository reference.
func NewNotifierFromConfig(ctx context.Context, token, org, issueRepo string) (Notifier, error) {
	owner, repo, found := strings.Cut(issueRepo, "/")
	if !found || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid compliance issue repository reference: %q", issueRepo)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	restClient := gogithub.NewClient(oauth2.NewClient(ctx, ts))

	return NewNotifier(restClient.Issues, org, owner, repo), nil
}

func IssueTitle(username string) string {
	return fmt.Sprintf("@%s: please add a full name to your GitHub profile", username)
}

func (n *notifier) IssueBody(username string) string {
	return fmt.Sprintf(nagBodyTemplate, username, n.org)
}

func (n *notifier) Nag(ctx context.Context, username string) error {
	title := IssueTitle(username)
	body := n.IssueBody(username)

	_, _, err := n.issues.Create(ctx, n.owner, n.repo, &gogithub.IssueRequest{
		Title: &title,
		Body:  &body,
	})
	if err != nil {
		return fmt.Errorf("create nag issue for '%s': %w", username, err)
	}

	return nil
}
