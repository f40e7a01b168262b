package email

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	messages []*gomail.Message
	err      error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.messages = append(c.messages, m...)
	return c.err
}

func TestSMTPEmailService_Send(t *testing.T) {
	capture := &captureSender{}
	svc := NewSMTPEmailService(SMTPConfig{FromAddress: "noreply@example.com", FromName: "Support"})
	svc.dialer = capture

	err := svc.Send(context.Background(), []string{"bob@example.com", "carol@example.com"}, "Transfer waiting", "**Reason:** transfer tr_abc")
	require.NoError(t, err)
	require.Len(t, capture.messages, 1)

	m := capture.messages[0]
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Transfer waiting"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "**Reason:** transfer tr_abc")
	assert.Contains(t, raw, "<strong>Reason:</strong>")
}

func TestSMTPEmailService_Send_Errors(t *testing.T) {
	svc := NewSMTPEmailService(SMTPConfig{FromAddress: "noreply@example.com"})
	svc.dialer = &captureSender{err: errors.New("connection refused")}

	err := svc.Send(context.Background(), []string{"bob@example.com"}, "s", "b")
	assert.ErrorContains(t, err, "connection refused")

	err = svc.Send(context.Background(), nil, "s", "b")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.Send(ctx, []string{"bob@example.com"}, "s", "b"), context.Canceled)
}
