package sns

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/taskboard-api/internal/config"
)

// Sender publishes SMS messages directly to phone numbers via AWS SNS. It is
// the real-gateway alternative to the email-to-SMS carrier rewrite and is
// selected with SMS_TRANSPORT=sns.
type Sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{client: sns.NewFromConfig(awsCfg)}, nil
}

// SendSMS publishes message to the phone number. The carrier hint is unused;
// SNS routes by number alone.
func (s *Sender) SendSMS(ctx context.Context, to, _, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	return err
}
