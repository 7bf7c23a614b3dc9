package events

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHub struct {
	mu     sync.Mutex
	frames [][]byte
}

func (h *fakeHub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, message)
}

func newTestRelay(hub Broadcaster) *Relay {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return NewRelay(nil, "", hub, logger)
}

func TestEvent_WireShape(t *testing.T) {
	occ := &models.Occurrence{ID: uuid.New(), Tipo: models.TipoIncendio, Status: models.StatusNovo}

	data, err := json.Marshal(NewEvent(OccurrenceCreated, occ))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "type")
	assert.Contains(t, raw, "payload")
	assert.Contains(t, raw, "timestamp")
	assert.JSONEq(t, `"occurrence:new"`, string(raw["type"]))
}

func TestDecode(t *testing.T) {
	id := uuid.New()
	frame := []byte(`{"type":"occurrence:delete","payload":{"id":"` + id.String() + `"},"timestamp":"2024-05-01T10:00:00Z"}`)

	event, err := Decode(frame)

	require.NoError(t, err)
	assert.Equal(t, OccurrenceDeleted, event.Type)
	assert.Equal(t, id, event.Payload.ID)
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":     `{`,
		"unknown type": `{"type":"occurrence:archive","payload":{}}`,
		"no payload":   `{"type":"occurrence:new"}`,
	}
	for name, frame := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(frame))
			assert.Error(t, err)
		})
	}
}

func TestRelay_ForwardsValidFramesOnly(t *testing.T) {
	hub := &fakeHub{}
	relay := newTestRelay(hub)
	valid := []byte(`{"type":"occurrence:update","payload":{"id":"` + uuid.NewString() + `","status":"EM_ANALISE"},"timestamp":"2024-05-01T10:00:00Z"}`)

	relay.forward([]byte(`garbage`))
	relay.forward(valid)

	require.Len(t, hub.frames, 1)
	assert.Equal(t, valid, hub.frames[0])
}
