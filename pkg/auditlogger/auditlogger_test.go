package auditlogger_test

import (
	"io"
	"testing"

	"github.com/fredhutch/github-org-manager/pkg/auditlogger"
	"github.com/fredhutch/github-org-manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func Test_Logf(t *testing.T) {
	log, _ := logger.GetLogger("text", "info")
	internalLogger := log.GetInternalLogger()
	internalLogger.Out = io.Discard
	logHook := test.NewLocal(internalLogger)

	correlationID := uuid.New()
	audit := auditlogger.New(log)

	t.Run("entry with user and team targets", func(t *testing.T) {
		audit.Logf("github:team:delete-member", correlationID, "octocat", "Engineering", "removed '%s' from team '%s'", "octocat", "Engineering")

		entry := logHook.LastEntry()
		assert.Equal(t, "removed 'octocat' from team 'Engineering'", entry.Message)
		assert.Equal(t, "github:team:delete-member", entry.Data["action"])
		assert.Equal(t, correlationID, entry.Data["correlation_id"])
		assert.Equal(t, "octocat", entry.Data["target_user"])
		assert.Equal(t, "Engineering", entry.Data["target_team"])
	})

	t.Run("empty targets are omitted", func(t *testing.T) {
		audit.Logf("github:org:invite-member", correlationID, "octocat", "", "invited '%s'", "octocat")

		entry := logHook.LastEntry()
		assert.Contains(t, entry.Data, "target_user")
		assert.NotContains(t, entry.Data, "target_team")
	})
}
