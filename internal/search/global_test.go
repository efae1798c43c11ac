package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailagent/dashboard/internal/domain"
)

func TestGlobal_CapsAndHighlights(t *testing.T) {
	var emails []domain.Email
	for i := 1; i <= 7; i++ {
		emails = append(emails, domain.Email{ID: int64(i), Subject: fmt.Sprintf("Budget %d", i), Body: "budget review"})
	}
	drafts := []domain.Draft{
		{ID: 1, Subject: "Re: budget"},
		{ID: 2, Subject: "Re: lunch"},
		{ID: 3, Body: "the BUDGET is fine"},
		{ID: 4, Subject: "budget again"},
		{ID: 5, Subject: "budget once more"},
	}
	actions := []domain.ActionItem{
		{ID: 1, TaskDescription: "Approve budget"},
		{ID: 2, TaskDescription: "Book room"},
	}

	res := Global("budget", emails, drafts, actions, time.Now())

	require.Len(t, res.Emails, MaxGlobalEmails)
	assert.Equal(t, int64(1), res.Emails[0].ID)
	assert.Equal(t, MarkOpen+"Budget"+MarkClose+" 1", res.Emails[0].SubjectHTML)
	assert.Equal(t, MarkOpen+"budget"+MarkClose+" review", res.Emails[0].SnippetHTML)

	assert.Len(t, res.Drafts, MaxGlobalDrafts)
	assert.Equal(t, int64(3), res.Drafts[1].ID)

	require.Len(t, res.Actions, 1)
	assert.Equal(t, int64(1), res.Actions[0].ID)
	assert.Equal(t, MaxGlobalEmails+MaxGlobalDrafts+1, res.Total())
}

func TestGlobal_NoTermsReturnsLeadingItems(t *testing.T) {
	drafts := []domain.Draft{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	res := Global("is:unread", nil, drafts, nil, time.Now())

	assert.Empty(t, res.Emails)
	assert.Len(t, res.Drafts, 3)
	assert.NotNil(t, res.Actions)
	assert.True(t, res.Filters.Unread)
}

func TestGlobal_InvalidUTF8Query(t *testing.T) {
	emails := []domain.Email{
		{ID: 1, Subject: "Budget", Body: "budget review"},
		{ID: 2, Subject: "Lunch", Body: "pizza"},
	}

	var res GlobalResult
	require.NotPanics(t, func() {
		res = Global("is:\xff", emails, nil, nil, time.Now())
	})

	// 无法识别的 is 值被忽略，所有邮件都保留且不加高亮
	require.Len(t, res.Emails, 2)
	assert.Equal(t, "Budget", res.Emails[0].SubjectHTML)
	assert.Equal(t, "budget review", res.Emails[0].SnippetHTML)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet("abc", 90))
	assert.Equal(t, "ab", Snippet("abc", 2))
	assert.Equal(t, "邮件", Snippet("邮件正文", 2))
	assert.Equal(t, "", Snippet("abc", 0))
}
