package crm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verzel/leadflow/internal/lead"
)

type mockAPI struct {
	CreateCardFunc func(ctx context.Context, fields CardFields) (string, error)
	UpdateCardFunc func(ctx context.Context, cardID string, fields CardFields) error

	createCalls int
	updateCalls int
}

func (m *mockAPI) CreateCard(ctx context.Context, fields CardFields) (string, error) {
	m.createCalls++
	if m.CreateCardFunc != nil {
		return m.CreateCardFunc(ctx, fields)
	}
	return "card-1", nil
}

func (m *mockAPI) UpdateCard(ctx context.Context, cardID string, fields CardFields) error {
	m.updateCalls++
	if m.UpdateCardFunc != nil {
		return m.UpdateCardFunc(ctx, cardID, fields)
	}
	return nil
}

func TestSyncCreatesWhenNoCard(t *testing.T) {
	api := &mockAPI{}
	syncer := NewSyncer(nil, api)

	result := syncer.Sync(context.Background(), "", CardFields{
		Snapshot: lead.Snapshot{Name: "Maria"},
	})

	assert.True(t, result.Synced())
	assert.Equal(t, "card-1", result.ExternalID)
	assert.Equal(t, 1, api.createCalls)
	assert.Equal(t, 0, api.updateCalls)
}

func TestSyncUpdatesWhenCardExists(t *testing.T) {
	api := &mockAPI{}
	syncer := NewSyncer(nil, api)

	result := syncer.Sync(context.Background(), "card-7", CardFields{
		Snapshot: lead.Snapshot{Name: "Maria"},
	})

	assert.True(t, result.Synced())
	assert.Equal(t, "card-7", result.ExternalID)
	assert.Equal(t, 0, api.createCalls)
	assert.Equal(t, 1, api.updateCalls)
}

func TestSyncReportsCreateFailure(t *testing.T) {
	api := &mockAPI{
		CreateCardFunc: func(ctx context.Context, fields CardFields) (string, error) {
			return "", errors.New("pipefy down")
		},
	}
	syncer := NewSyncer(nil, api)

	result := syncer.Sync(context.Background(), "", CardFields{})

	assert.False(t, result.Synced())
	assert.Equal(t, StatusFailed, result.Status)
	assert.Contains(t, result.Reason, "pipefy down")
	assert.Empty(t, result.ExternalID)
}

func TestSyncReportsUpdateFailureWithCardID(t *testing.T) {
	api := &mockAPI{
		UpdateCardFunc: func(ctx context.Context, cardID string, fields CardFields) error {
			return errors.New("pipefy down")
		},
	}
	syncer := NewSyncer(nil, api)

	result := syncer.Sync(context.Background(), "card-7", CardFields{})

	assert.False(t, result.Synced())
	assert.Equal(t, "card-7", result.ExternalID)
}

func TestSyncNeverCreatesTwiceForSameCard(t *testing.T) {
	api := &mockAPI{}
	syncer := NewSyncer(nil, api)

	first := syncer.Sync(context.Background(), "", CardFields{})
	second := syncer.Sync(context.Background(), first.ExternalID, CardFields{})

	assert.True(t, second.Synced())
	assert.Equal(t, 1, api.createCalls)
	assert.Equal(t, 1, api.updateCalls)
}

func TestFieldAttributesFallbackName(t *testing.T) {
	attrs := fieldAttributes(CardFields{}, true)

	var name string
	for _, attr := range attrs {
		if attr["field_id"] == fieldName {
			name = attr["field_value"].(string)
		}
	}
	assert.Equal(t, fallbackName, name)
}

func TestFieldAttributesPartialUpdateSkipsEmpty(t *testing.T) {
	attrs := fieldAttributes(CardFields{
		Snapshot: lead.Snapshot{Name: "Maria", Email: "maria@acme.com"},
	}, false)

	seen := make(map[string]bool)
	for _, attr := range attrs {
		seen[attr["field_id"].(string)] = true
	}
	assert.True(t, seen[fieldName])
	assert.True(t, seen[fieldEmail])
	assert.True(t, seen[fieldInterestConfirmed])
	assert.False(t, seen[fieldCompany])
	assert.False(t, seen[fieldPhone])
	assert.False(t, seen[fieldMeetingLink])
}
