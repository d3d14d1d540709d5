package membership_test

import (
	"context"
	"io"
	"net/http"

	"github.com/fredhutch/github-org-manager/pkg/auditlogger"
	"github.com/fredhutch/github-org-manager/pkg/github"
	"github.com/fredhutch/github-org-manager/pkg/logger"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeClient cans provider responses and records every mutation issued
// against it.
type fakeClient struct {
	github.Client

	membershipResult github.Result
	inviteResult     *github.InviteResult
	removeResult     github.Result
	teams            []github.Team
	onTeams          map[int64]bool
	teamRemoveStatus map[int64]int

	removedFromTeams []int64
	orgRemovals      []string
}

func (f *fakeClient) GetMembership(_ context.Context, org, username string) (github.Result, error) {
	return f.membershipResult, nil
}

func (f *fakeClient) InviteMembership(_ context.Context, org, username string) (*github.InviteResult, error) {
	return f.inviteResult, nil
}

func (f *fakeClient) RemoveMembership(_ context.Context, org, username string) (github.Result, error) {
	f.orgRemovals = append(f.orgRemovals, username)
	return f.removeResult, nil
}

func (f *fakeClient) ListTeams(_ context.Context, org string) ([]github.Team, error) {
	return f.teams, nil
}

func (f *fakeClient) GetTeamMembership(_ context.Context, teamID int64, username string) (github.Result, error) {
	if f.onTeams[teamID] {
		return github.Result{Kind: github.KindSuccess, StatusCode: http.StatusOK}, nil
	}
	return github.Result{Kind: github.KindNotFound, StatusCode: http.StatusNotFound}, nil
}

func (f *fakeClient) RemoveTeamMembership(_ context.Context, teamID int64, username string) (github.Result, error) {
	f.removedFromTeams = append(f.removedFromTeams, teamID)
	if status, ok := f.teamRemoveStatus[teamID]; ok && status != http.StatusNoContent {
		return github.Result{Kind: github.KindUnknown, StatusCode: status}, nil
	}
	return github.Result{Kind: github.KindSuccess, StatusCode: http.StatusNoContent}, nil
}

func testLogger() (logger.Logger, *test.Hook) {
	log, _ := logger.GetLogger("text", "debug")
	internalLogger := log.GetInternalLogger()
	internalLogger.Out = io.Discard
	return log, test.NewLocal(internalLogger)
}

func testAuditLogger() auditlogger.AuditLogger {
	log, _ := testLogger()
	return auditlogger.New(log)
}
