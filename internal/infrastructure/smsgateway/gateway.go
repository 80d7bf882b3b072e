package smsgateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskboard-api/internal/infrastructure/smtp"
)

// carrierDomains maps carrier names to their email-to-SMS gateway domains.
var carrierDomains = map[string]string{
	"verizon":      "vtext.com",
	"att":          "txt.att.net",
	"tmobile":      "tmomail.net",
	"sprint":       "messaging.sprintpcs.com",
	"uscellular":   "email.uscc.net",
	"virgin":       "vmobl.com",
	"cricket":      "sms.cricketwireless.net",
	"metro":        "mymetropcs.com",
	"boost":        "sms.myboostmobile.com",
	"straighttalk": "vtext.com",
}

// Gateway delivers SMS by rewriting the phone number into a carrier
// email-to-SMS address and sending through the mailer. It is not a distinct
// transport; a real SMS provider (see the sns package) can be swapped in
// behind the same interface.
type Gateway struct {
	mailer        smtp.Mailer
	defaultDomain string
	subject       string
}

func New(mailer smtp.Mailer, defaultDomain string) *Gateway {
	return &Gateway{mailer: mailer, defaultDomain: defaultDomain, subject: "Taskboard Notification"}
}

// Address builds the gateway email address for a phone number. Non-digit
// characters are stripped; an unknown carrier falls back to the default domain.
func (g *Gateway) Address(phone, carrier string) string {
	domain, ok := carrierDomains[strings.ToLower(carrier)]
	if !ok {
		domain = g.defaultDomain
	}
	return digitsOnly(phone) + "@" + domain
}

// SendSMS sends message to the phone number through the user's carrier gateway.
func (g *Gateway) SendSMS(ctx context.Context, phone, carrier, message string) error {
	addr := g.Address(phone, carrier)
	if err := g.mailer.SendEmail(addr, g.subject, message); err != nil {
		return fmt.Errorf("sms gateway send to %s: %w", addr, err)
	}
	return nil
}

// Carriers lists the supported carrier names.
func Carriers() []string {
	names := make([]string, 0, len(carrierDomains))
	for name := range carrierDomains {
		names = append(names, name)
	}
	return names
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
