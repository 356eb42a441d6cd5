package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceKind(t *testing.T) {
	kind, err := ParseResourceKind("card")
	require.NoError(t, err)
	assert.Equal(t, ResourceCard, kind)

	_, err = ParseResourceKind("list")
	assert.Error(t, err)
}

func TestResourceRequiresKindAndID(t *testing.T) {
	n := &Notification{}
	assert.Nil(t, n.Resource())

	kind := ResourceBoard
	n.ResourceKind = &kind
	assert.Nil(t, n.Resource(), "kind without id")

	n.SetResource(CardResource(7))
	assert.Equal(t, &Resource{Kind: ResourceCard, ID: 7}, n.Resource())

	n.SetResource(nil)
	assert.Nil(t, n.ResourceKind)
	assert.Nil(t, n.ResourceID)
}

func TestPayloadJSON(t *testing.T) {
	actor := uint(3)
	n := &Notification{
		ID:        "0b7a4a38-8f6c-4c39-9d0e-3f2f1c1f6a11",
		UserID:    5,
		Type:      TypeCardAssigned,
		Title:     "Nueva tarjeta asignada",
		Message:   "Ana te asignó 'Deploy'",
		ActorID:   &actor,
		CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("ART", -3*3600)),
	}
	n.SetResource(CardResource(42))

	raw, err := json.Marshal(n.Payload())
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "CARD_ASSIGNED", got["type"])
	assert.Equal(t, false, got["read"])
	assert.Equal(t, "2024-05-01T12:30:00Z", got["createdAt"])
	assert.Equal(t, map[string]interface{}{"kind": "card", "id": float64(42)}, got["resource"])
	assert.Equal(t, float64(3), got["actorId"])

	n.SetResource(nil)
	raw, err = json.Marshal(n.Payload())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &got))
	value, present := got["resource"]
	assert.True(t, present)
	assert.Nil(t, value)
}
