package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var (
	// ErrInvalidDestination means the provider rejected the destination number.
	ErrInvalidDestination = errors.New("invalid destination number")
	// ErrTimeout means the provider did not answer before the deadline.
	ErrTimeout = errors.New("sms gateway timeout")
	// ErrDelivery covers every other provider failure.
	ErrDelivery = errors.New("sms delivery failed")
)

// codeInvalidToNumber is Twilio's "The 'To' number is not a valid phone number".
const codeInvalidToNumber = 21211

// Sender delivers a text message to an E.164 number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Twilio sends messages through the Twilio Programmable Messaging API.
type Twilio struct {
	api  messageCreator
	from string
}

// NewTwilio builds the gateway client once at startup. Missing credentials fail fast.
func NewTwilio(accountSID, authToken, from string, timeout time.Duration) (*Twilio, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, errors.New("missing Twilio credentials")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Twilio{api: client.Api, from: from}, nil
}

// Send blocks until Twilio answers or ctx is done.
func (t *Twilio) Send(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	done := make(chan error, 1)
	go func() {
		_, err := t.api.CreateMessage(params)
		done <- err
	}()

	select {
	case err := <-done:
		return classify(err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var rest *twclient.TwilioRestError
	if errors.As(err, &rest) && rest.Code == codeInvalidToNumber {
		return fmt.Errorf("%w: %s", ErrInvalidDestination, rest.Message)
	}
	return fmt.Errorf("%w: %v", ErrDelivery, err)
}

// OTPMessage is the body of a verification SMS.
func OTPMessage(code string, ttl time.Duration) string {
	return fmt.Sprintf("Your verification code is: %s. This code will expire in %d minutes.", code, int(ttl.Minutes()))
}
