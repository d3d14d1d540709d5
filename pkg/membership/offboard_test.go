package membership_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/fredhutch/github-org-manager/pkg/github"
	"github.com/fredhutch/github-org-manager/pkg/membership"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const protectedTeam = "AllFredHutch"

func TestOffboard(t *testing.T) {
	ctx := context.Background()

	t.Run("protected team is never touched", func(t *testing.T) {
		client := &fakeClient{
			teams: []github.Team{
				{ID: 1, Name: "Engineering"},
				{ID: 2, Name: protectedTeam},
			},
			onTeams:      map[int64]bool{1: true, 2: true},
			removeResult: github.Result{Kind: github.KindSuccess, StatusCode: http.StatusNoContent},
		}
		log, _ := testLogger()
		offboarder := membership.NewOffboarder(org, protectedTeam, client, testAuditLogger(), log)

		status, err := offboarder.Offboard(ctx, "octocat")

		assert.NoError(t, err)
		assert.Equal(t, true, status)
		assert.Equal(t, []int64{1}, client.removedFromTeams)
		assert.Equal(t, []string{"octocat"}, client.orgRemovals)
	})

	t.Run("failed team removal does not stop the org removal", func(t *testing.T) {
		client := &fakeClient{
			teams: []github.Team{
				{ID: 1, Name: "Engineering"},
				{ID: 3, Name: "Infrastructure"},
			},
			onTeams:          map[int64]bool{1: true, 3: true},
			teamRemoveStatus: map[int64]int{1: http.StatusInternalServerError},
			removeResult:     github.Result{Kind: github.KindSuccess, StatusCode: http.StatusNoContent},
		}
		log, hook := testLogger()
		offboarder := membership.NewOffboarder(org, protectedTeam, client, testAuditLogger(), log)

		status, err := offboarder.Offboard(ctx, "octocat")

		assert.NoError(t, err)
		assert.Equal(t, true, status)
		assert.Equal(t, []int64{1, 3}, client.removedFromTeams)
		assert.Equal(t, []string{"octocat"}, client.orgRemovals)

		warned := false
		for _, entry := range hook.AllEntries() {
			if entry.Level == logrus.WarnLevel && strings.Contains(entry.Message, "unable to remove 'octocat' from team 'Engineering'") {
				warned = true
			}
		}
		assert.True(t, warned)
	})

	t.Run("user on no teams goes straight to org removal", func(t *testing.T) {
		client := &fakeClient{
			teams: []github.Team{
				{ID: 1, Name: "Engineering"},
			},
			onTeams:      map[int64]bool{},
			removeResult: github.Result{Kind: github.KindNotFound, StatusCode: http.StatusNotFound},
		}
		log, _ := testLogger()
		offboarder := membership.NewOffboarder(org, protectedTeam, client, testAuditLogger(), log)

		status, err := offboarder.Offboard(ctx, "ghost")

		assert.NoError(t, err)
		assert.Equal(t, "not a member or not authenticated", status)
		assert.Empty(t, client.removedFromTeams)
	})

	t.Run("unexpected org removal status", func(t *testing.T) {
		client := &fakeClient{
			removeResult: github.Result{Kind: github.KindUnknown, StatusCode: http.StatusBadGateway},
		}
		log, _ := testLogger()
		offboarder := membership.NewOffboarder(org, protectedTeam, client, testAuditLogger(), log)

		status, err := offboarder.Offboard(ctx, "octocat")

		assert.NoError(t, err)
		assert.Equal(t, "ERROR", status)
	})
}
