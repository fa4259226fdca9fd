package ai

import (
	"testing"

	"quoteai/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("missing key fails", func(t *testing.T) {
		client, err := NewClient(&config.Config{})
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("configured key succeeds", func(t *testing.T) {
		client, err := NewClient(&config.Config{OpenAIKey: "sk-test", OpenAITimeout: 60})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestParseEmailDraft(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
		checkDraft  func(t *testing.T, draft *EmailDraft)
	}{
		{
			name:    "valid reply",
			content: `{"subject":"Re: your quote","body":"Happy to help"}`,
			checkDraft: func(t *testing.T, draft *EmailDraft) {
				assert.Equal(t, "Re: your quote", draft.Subject)
				assert.Equal(t, "Happy to help", draft.Body)
			},
		},
		{
			name:    "extra keys ignored",
			content: `{"subject":"Hi","body":"text","confidence":0.9}`,
			checkDraft: func(t *testing.T, draft *EmailDraft) {
				assert.Equal(t, "Hi", draft.Subject)
			},
		},
		{
			name:    "empty strings are still present",
			content: `{"subject":"","body":""}`,
			checkDraft: func(t *testing.T, draft *EmailDraft) {
				assert.Empty(t, draft.Subject)
				assert.Empty(t, draft.Body)
			},
		},
		{
			name:        "missing body fails",
			content:     `{"subject":"Hi"}`,
			expectError: true,
		},
		{
			name:        "missing subject fails",
			content:     `{"body":"text"}`,
			expectError: true,
		},
		{
			name:        "wrong type fails",
			content:     `{"subject":1,"body":"text"}`,
			expectError: true,
		},
		{
			name:        "not json fails",
			content:     `here is your reply!`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := parseEmailDraft(tt.content)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, draft)
				return
			}
			require.NoError(t, err)
			tt.checkDraft(t, draft)
		})
	}
}

func TestParseQuoteDraft(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
		checkDraft  func(t *testing.T, draft *QuoteDraft)
	}{
		{
			name: "valid quote",
			content: `{"title":"Bathroom renovation","description":"Full renovation","line_items":[` +
				`{"name":"Demolition","price":400,"service_id":"svc-1"},` +
				`{"name":"Tiling","description":"Floor and walls","price":800.50}],"total_price":1200.50}`,
			checkDraft: func(t *testing.T, draft *QuoteDraft) {
				assert.Equal(t, "Bathroom renovation", draft.Title)
				require.NotNil(t, draft.Description)
				assert.Equal(t, "Full renovation", *draft.Description)
				require.Len(t, draft.LineItems, 2)
				assert.Equal(t, "Demolition", draft.LineItems[0].Name)
				require.NotNil(t, draft.LineItems[0].ServiceID)
				assert.Equal(t, "svc-1", *draft.LineItems[0].ServiceID)
				assert.Nil(t, draft.LineItems[1].ServiceID)
				assert.Equal(t, 800.50, draft.LineItems[1].Price)
				assert.Equal(t, 1200.50, draft.TotalPrice)
			},
		},
		{
			name:    "empty line items array allowed by the parser",
			content: `{"title":"Nothing","line_items":[],"total_price":0}`,
			checkDraft: func(t *testing.T, draft *QuoteDraft) {
				assert.Empty(t, draft.LineItems)
			},
		},
		{
			name:        "missing line items fails",
			content:     `{"title":"Bathroom renovation","total_price":1200.50}`,
			expectError: true,
		},
		{
			name:        "missing title fails",
			content:     `{"line_items":[],"total_price":0}`,
			expectError: true,
		},
		{
			name:        "missing total fails",
			content:     `{"title":"Bathroom renovation","line_items":[]}`,
			expectError: true,
		},
		{
			name:        "line item without price fails",
			content:     `{"title":"Bathroom renovation","line_items":[{"name":"Demolition"}],"total_price":400}`,
			expectError: true,
		},
		{
			name:        "line item without name fails",
			content:     `{"title":"Bathroom renovation","line_items":[{"price":400}],"total_price":400}`,
			expectError: true,
		},
		{
			name:        "price as string fails",
			content:     `{"title":"Bathroom renovation","line_items":[{"name":"Demolition","price":"400"}],"total_price":400}`,
			expectError: true,
		},
		{
			name:        "not json fails",
			content:     `sure, here's a quote`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := parseQuoteDraft(tt.content)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, draft)
				return
			}
			require.NoError(t, err)
			tt.checkDraft(t, draft)
		})
	}
}
