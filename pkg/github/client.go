package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fredhutch/github-org-manager/pkg/config"
	"github.com/fredhutch/github-org-manager/pkg/metrics"
	"golang.org/x/oauth2"
)

// acceptHeader The media type the original tooling was written against. The
// hellcat preview is long since folded into the stable API but remains valid.
const acceptHeader = "application/vnd.github.hellcat-preview+json"

type client struct {
	client    *http.Client
	apiURL    string
	pageDelay time.Duration
}

type Client interface {
	GetMembership(ctx context.Context, org, username string) (Result, error)
	InviteMembership(ctx context.Context, org, username string) (*InviteResult, error)
	RemoveMembership(ctx context.Context, org, username string) (Result, error)
	ListTeams(ctx context.Context, org string) ([]Team, error)
	GetTeamMembership(ctx context.Context, teamID int64, username string) (Result, error)
	RemoveTeamMembership(ctx context.Context, teamID int64, username string) (Result, error)
	GetUser(ctx context.Context, username string) (*User, error)
	FetchAll(ctx context.Context, firstURL string) ([]json.RawMessage, error)
	MembersURL(org string) string
	TeamsURL(org string) string
}

func New(c *http.Client, apiURL string, pageDelay time.Duration) Client {
	return &client{
		client:    c,
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		pageDelay: pageDelay,
	}
}

func NewFromConfig(ctx context.Context, cfg config.GitHub) Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(ctx, ts)

	// A 302 from the membership endpoint is a valid answer, not a detour to
	// follow.
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return New(httpClient, cfg.APIURL, cfg.PageDelay)
}

// orgURL builds an organization-scoped API URL. An empty id addresses the
// collection itself.
func (s *client) orgURL(org, resource, id string) string {
	u := fmt.Sprintf("%s/orgs/%s/%s", s.apiURL, org, resource)
	if id != "" {
		u = u + "/" + id
	}
	return u
}

func (s *client) teamURL(teamID int64, resource, id string) string {
	u := fmt.Sprintf("%s/teams/%d/%s", s.apiURL, teamID, resource)
	if id != "" {
		u = u + "/" + id
	}
	return u
}

func (s *client) MembersURL(org string) string {
	return s.orgURL(org, "members", "")
}

func (s *client) TeamsURL(org string) string {
	return s.orgURL(org, "teams", "")
}

func (s *client) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)

	return s.client.Do(req)
}

func classify(statusCode int) Result {
	result := Result{StatusCode: statusCode}

	switch {
	case statusCode >= 200 && statusCode < 300:
		result.Kind = KindSuccess
	case statusCode == http.StatusNotFound:
		result.Kind = KindNotFound
	case statusCode == http.StatusFound:
		result.Kind = KindRedirect
	case statusCode == http.StatusUnauthorized:
		result.Kind = KindUnauthorized
	default:
		result.Kind = KindUnknown
	}

	return result
}

func (s *client) GetMembership(ctx context.Context, org, username string) (Result, error) {
	resp, err := s.do(ctx, http.MethodGet, s.orgURL(org, "members", username))
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	metrics.IncApiCalls("get-membership", resp.StatusCode)
	return classify(resp.StatusCode), nil
}

func (s *client) InviteMembership(ctx context.Context, org, username string) (*InviteResult, error) {
	resp, err := s.do(ctx, http.MethodPut, s.orgURL(org, "memberships", username))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	metrics.IncApiCalls("invite-membership", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	parsed := struct {
		State   string `json:"state"`
		Message string `json:"message"`
	}{}

	// The provider answers with either a membership object or an error object
	// carrying a message. Anything else is handed back verbatim with both
	// fields empty.
	_ = json.Unmarshal(body, &parsed)

	return &InviteResult{
		State:   parsed.State,
		Message: parsed.Message,
		Body:    body,
	}, nil
}

func (s *client) RemoveMembership(ctx context.Context, org, username string) (Result, error) {
	resp, err := s.do(ctx, http.MethodDelete, s.orgURL(org, "members", username))
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	metrics.IncApiCalls("remove-membership", resp.StatusCode)
	return classify(resp.StatusCode), nil
}

func (s *client) ListTeams(ctx context.Context, org string) ([]Team, error) {
	items, err := s.FetchAll(ctx, s.TeamsURL(org))
	if err != nil {
		return nil, err
	}

	teams := make([]Team, 0, len(items))
	for _, item := range items {
		team := Team{}
		err = json.Unmarshal(item, &team)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	return teams, nil
}

func (s *client) GetTeamMembership(ctx context.Context, teamID int64, username string) (Result, error) {
	resp, err := s.do(ctx, http.MethodGet, s.teamURL(teamID, "memberships", username))
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	metrics.IncApiCalls("get-team-membership", resp.StatusCode)
	return classify(resp.StatusCode), nil
}

func (s *client) RemoveTeamMembership(ctx context.Context, teamID int64, username string) (Result, error) {
	resp, err := s.do(ctx, http.MethodDelete, s.teamURL(teamID, "memberships", username))
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	metrics.IncApiCalls("remove-team-membership", resp.StatusCode)
	return classify(resp.StatusCode), nil
}

func (s *client) GetUser(ctx context.Context, username string) (*User, error) {
	resp, err := s.do(ctx, http.MethodGet, fmt.Sprintf("%s/users/%s", s.apiURL, username))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	metrics.IncApiCalls("get-user", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: %s", resp.Status, string(text))
	}

	user := &User{}
	err = json.NewDecoder(resp.Body).Decode(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}
