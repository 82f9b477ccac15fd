package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoticeFor(t *testing.T) {
	assert.Equal(t, NoticeMissingFields, NoticeFor(Outcome{Kind: OutcomeMissingFields}).Kind)
	assert.Equal(t, NoticePasswordMismatch, NoticeFor(Outcome{Kind: OutcomePasswordMismatch}).Kind)
	assert.Equal(t, NoticeNone, NoticeFor(Outcome{Kind: OutcomeValid}).Kind)
}

func TestNoticeNamesAndMessages(t *testing.T) {
	kinds := []NoticeKind{NoticeMissingFields, NoticePasswordMismatch, NoticeRegistered, NoticeFailed}
	seen := map[string]bool{}
	for _, kind := range kinds {
		n := Notice{Kind: kind}
		assert.NotEmpty(t, n.Name())
		assert.NotEmpty(t, n.Message())
		assert.False(t, seen[n.Name()], "names must be distinct")
		seen[n.Name()] = true
	}
	assert.Empty(t, Notice{}.Name())
	assert.Empty(t, Notice{}.Message())
}

func TestRegisteredDelay(t *testing.T) {
	n := Registered("/user/dashboard", 1500*time.Millisecond)
	assert.Equal(t, "registered", n.Name())
	assert.Equal(t, "/user/dashboard", n.Next)
	assert.EqualValues(t, 1500, n.DelayMillis())
	assert.EqualValues(t, 2, n.DelaySeconds())
	assert.EqualValues(t, 0, Registered("/", 0).DelaySeconds())
}
