package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"turnos/model"

	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	err  error
	sent []model.SendEmailEventMessage
}

func (f *fakeSender) Send(_ context.Context, to []string, subject string, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, model.SendEmailEventMessage{To: to[0], Subject: subject, Body: body})
	return nil
}

func TestSendEmailHandler(t *testing.T) {
	msg := model.SendEmailEventMessage{To: "ana@example.com", Subject: "Confirmación", Body: "Hola"}
	payload, _ := json.Marshal(msg)

	tests := []struct {
		name      string
		payload   []byte
		sendErr   error
		expectErr bool
		sent      int
	}{
		{name: "sent", payload: payload, sent: 1},
		{name: "malformed payload is dropped", payload: []byte("not json")},
		{name: "smtp failure is retried", payload: payload, sendErr: errors.New("421"), expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{err: tc.sendErr}
			in := EmailEvent{EmailOutbound: sender, Timeout: time.Second}

			err := in.SendEmailHandler(context.Background(), tc.payload)

			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, sender.sent, tc.sent)
			if tc.sent > 0 {
				assert.Equal(t, msg, sender.sent[0])
			}
		})
	}
}
