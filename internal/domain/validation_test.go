package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSubject(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		expected bool
	}{
		{"Empty subject", "", true},
		{"Normal subject", "Re: invoice", true},
		{"Max length", strings.Repeat("a", MaxSubjectLength), true},
		{"Max length multibyte", strings.Repeat("邮", MaxSubjectLength), true},
		{"Too long", strings.Repeat("a", MaxSubjectLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSubject(tt.subject))
		})
	}
}

func TestChatInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   ChatInput
		wantErr error
	}{
		{"Valid all emails", ChatInput{Query: "what is urgent?"}, nil},
		{"Valid specific email", ChatInput{Query: "summarize", Context: ChatContextSpecificEmail, EmailID: 3}, nil},
		{"Blank query", ChatInput{Query: "   "}, ErrQueryRequired},
		{"Too long query", ChatInput{Query: strings.Repeat("q", MaxQueryLength+1)}, ErrQueryTooLong},
		{"Unknown context", ChatInput{Query: "hi", Context: "everything"}, ErrInvalidChatContext},
		{"Specific email without id", ChatInput{Query: "hi", Context: ChatContextSpecificEmail}, ErrEmailIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestChatInput_ResolveContext(t *testing.T) {
	assert.Equal(t, ChatContextAllEmails, ChatInput{}.ResolveContext())
	assert.Equal(t, ChatContextSpecificEmail, ChatInput{EmailID: 7}.ResolveContext())
	assert.Equal(t, ChatContextUrgent, ChatInput{EmailID: 7, Urgent: true}.ResolveContext())
	assert.Equal(t, ChatContextAllEmails, ChatInput{Context: ChatContextAllEmails, EmailID: 7}.ResolveContext())
}

func TestCreatePromptInput_Validate(t *testing.T) {
	in := CreatePromptInput{Name: "  auto_reply ", PromptText: "Reply politely."}
	assert.NoError(t, in.Validate())
	assert.Equal(t, "auto_reply", in.Name)

	in = CreatePromptInput{Name: "", PromptText: "x"}
	assert.ErrorIs(t, in.Validate(), ErrPromptNameRequired)

	in = CreatePromptInput{Name: "x", PromptText: " "}
	assert.ErrorIs(t, in.Validate(), ErrPromptTextRequired)
}

func TestUpdateInputs_Validate(t *testing.T) {
	assert.ErrorIs(t, (&UpdatePromptInput{}).Validate(), ErrEmptyUpdate)
	assert.NoError(t, (&UpdatePromptInput{Description: "Custom"}).Validate())

	assert.ErrorIs(t, (&UpdateDraftInput{}).Validate(), ErrEmptyUpdate)
	assert.NoError(t, (&UpdateDraftInput{Body: "Thanks!"}).Validate())

	assert.ErrorIs(t, (&UpdateActionInput{}).Validate(), ErrEmptyUpdate)
	assert.ErrorIs(t, (&UpdateActionInput{Status: "done"}).Validate(), ErrInvalidStatus)
	assert.NoError(t, (&UpdateActionInput{Status: ActionStatusCompleted}).Validate())
}

func TestCreateActionInput_Validate(t *testing.T) {
	in := CreateActionInput{EmailID: 1, TaskDescription: "  send the report "}
	assert.NoError(t, in.Validate())
	assert.Equal(t, "send the report", in.TaskDescription)

	assert.ErrorIs(t, (&CreateActionInput{TaskDescription: "x"}).Validate(), ErrEmailIDRequired)
	assert.ErrorIs(t, (&CreateActionInput{EmailID: 1}).Validate(), ErrTaskRequired)
}
