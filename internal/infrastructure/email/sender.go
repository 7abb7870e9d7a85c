package email

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sakashimaa/shop-api/internal/domain"
	"github.com/sakashimaa/shop-api/pkg/config"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"github.com/sakashimaa/shop-api/pkg/utils"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Sender interface {
	SendWelcomeEmail(ctx context.Context, to, name string) error
	SendOrderConfirmationEmail(ctx context.Context, to, name, orderID string, total float64) error
	SendOrderStatusEmail(ctx context.Context, to, name, orderID string, status domain.OrderStatus) error
}

// SESClient is the part of the SES API the sender uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesSender struct {
	client  SESClient
	from    string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	tracer  trace.Tracer
}

func NewSESSender(ctx context.Context, cfg config.Email, logger *zap.Logger) (Sender, error) {
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("sender email address is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return NewSender(ses.NewFromConfig(awsCfg), cfg.SenderEmail, logger), nil
}

func NewSender(client SESClient, from string, logger *zap.Logger) Sender {
	return &sesSender{
		client:  client,
		from:    from,
		breaker: utils.NewBreaker("ses", logger),
		logger:  logger,
		tracer:  otel.Tracer("infrastructure/email"),
	}
}

func (s *sesSender) SendWelcomeEmail(ctx context.Context, to, name string) error {
	ctx, span := s.tracer.Start(ctx, "ses.SendWelcomeEmail")
	defer span.End()

	subject := "Welcome to the shop!"
	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Your account has been created. Happy shopping!</p>
        </body>
        </html>`, html.EscapeString(name))
	bodyText := fmt.Sprintf("Dear %s,\n\nYour account has been created. Happy shopping!", name)

	return s.send(ctx, span, to, subject, bodyHTML, bodyText)
}

func (s *sesSender) SendOrderConfirmationEmail(ctx context.Context, to, name, orderID string, total float64) error {
	ctx, span := s.tracer.Start(ctx, "ses.SendOrderConfirmationEmail")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", orderID))

	totalStr := strconv.FormatFloat(total, 'f', 2, 64)
	subject := fmt.Sprintf("Order #%s Confirmation - Thank You for Your Purchase!", orderID)
	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Thank you for your order! Your order #%s has been successfully placed.</p>
            <ul>
                <li>Order ID: %s</li>
                <li>Total Amount: %s</li>
            </ul>
            <p>We'll send you another email when your order ships.</p>
        </body>
        </html>`, html.EscapeString(name), orderID, orderID, totalStr)
	bodyText := fmt.Sprintf(
		"Dear %s,\n\nThank you for your order! Your order #%s has been successfully placed.\n\n"+
			"Order ID: %s\nTotal Amount: %s\n\nWe'll send you another email when your order ships.",
		name, orderID, orderID, totalStr)

	return s.send(ctx, span, to, subject, bodyHTML, bodyText)
}

func (s *sesSender) SendOrderStatusEmail(ctx context.Context, to, name, orderID string, status domain.OrderStatus) error {
	ctx, span := s.tracer.Start(ctx, "ses.SendOrderStatusEmail")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", orderID),
		attribute.String("status", string(status)),
	)

	subject := fmt.Sprintf("Order #%s is now %s", orderID, status)
	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>The status of your order #%s changed to <strong>%s</strong>.</p>
        </body>
        </html>`, html.EscapeString(name), orderID, status)
	bodyText := fmt.Sprintf("Dear %s,\n\nThe status of your order #%s changed to %s.", name, orderID, status)

	return s.send(ctx, span, to, subject, bodyHTML, bodyText)
}

func (s *sesSender) send(ctx context.Context, span trace.Span, to, subject, bodyHTML, bodyText string) error {
	if to == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	_, err := utils.ExecuteWithBreaker(s.breaker, func() (*ses.SendEmailOutput, error) {
		return s.client.SendEmail(ctx, input)
	})
	if err != nil {
		span.RecordError(err)
		mylogger.Error(
			ctx,
			s.logger,
			"Error sending email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)

		return fmt.Errorf("failed to send email: %w", err)
	}

	mylogger.Info(ctx, s.logger, "Email sent successfully", zap.String("to", to), zap.String("subject", subject))
	return nil
}
