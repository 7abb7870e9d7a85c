package email_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/internal/infrastructure/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendOrderConfirmationEmail(t *testing.T) {
	client := &fakeSES{}
	sender := email.NewSender(client, "shop@example.com", zap.NewNop())

	err := sender.SendOrderConfirmationEmail(context.Background(), "ann@example.com", "Ann", "abc123", 42.5)
	require.NoError(t, err)
	require.Len(t, client.inputs, 1)

	in := client.inputs[0]
	assert.Equal(t, "shop@example.com", aws.ToString(in.Source))
	assert.Equal(t, []string{"ann@example.com"}, in.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(in.Message.Subject.Data), "abc123")
	assert.Contains(t, aws.ToString(in.Message.Body.Text.Data), "42.50")
}

func TestSendOrderStatusEmail_EscapesName(t *testing.T) {
	client := &fakeSES{}
	sender := email.NewSender(client, "shop@example.com", zap.NewNop())

	err := sender.SendOrderStatusEmail(context.Background(), "bob@example.com", "<b>Bob</b>", "o1", domain.OrderStatusShipped)
	require.NoError(t, err)

	html := aws.ToString(client.inputs[0].Message.Body.Html.Data)
	assert.False(t, strings.Contains(html, "<b>Bob</b>"))
	assert.Contains(t, html, "shipped")
}

func TestSend_Errors(t *testing.T) {
	client := &fakeSES{err: errors.New("throttled")}
	sender := email.NewSender(client, "shop@example.com", zap.NewNop())

	require.Error(t, sender.SendWelcomeEmail(context.Background(), "ann@example.com", "Ann"))
	require.Error(t, sender.SendWelcomeEmail(context.Background(), "", "Ann"))
	assert.Len(t, client.inputs, 1)
}
