package reminder

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/taskboard-api/internal/domain"
)

// Mailer sends an email message. Matches the smtp infrastructure.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// SMSSender delivers a text message to a phone number. Implemented by the
// email-to-SMS carrier gateway and by the SNS sender.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, carrier, message string) error
}

// DispatchResult is the settled tally of one dispatch round.
type DispatchResult struct {
	Attempted int
	Succeeded int
}

// DispatchOutcome reports immediately how many channel sends were issued.
// Settled receives the final tally once every send has finished; the scan
// cycle does not wait on it before persisting state.
type DispatchOutcome struct {
	Attempts      int
	EmailAttempts int
	Settled       <-chan DispatchResult
}

// Notifier composes and fires the per-bucket deadline messages. Up to four
// messages go out per round: overdue-email, upcoming-email, overdue-sms and
// upcoming-sms, each gated independently. Sends run concurrently; a failed
// send is logged and counted, never propagated.
type Notifier struct {
	mailer Mailer
	sms    SMSSender
}

func NewNotifier(mailer Mailer, sms SMSSender) *Notifier {
	return &Notifier{mailer: mailer, sms: sms}
}

// Dispatch issues the gated channel sends for the new alert buckets and
// returns without waiting for them to settle.
func (n *Notifier) Dispatch(ctx context.Context, user *domain.User, overdue, upcoming []domain.Alert, sendEmail, sendSMS bool) DispatchOutcome {
	type job struct {
		channel string
		run     func() error
	}
	var jobs []job
	emailAttempts := 0

	if sendEmail && n.mailer != nil && user.Email != "" {
		for _, bucket := range []struct {
			kind  domain.AlertKind
			items []domain.Alert
		}{{domain.AlertOverdue, overdue}, {domain.AlertUpcoming, upcoming}} {
			if len(bucket.items) == 0 {
				continue
			}
			subject, body := composeEmail(user, bucket.kind, bucket.items)
			to := user.Email
			jobs = append(jobs, job{channel: "email", run: func() error {
				return n.mailer.SendEmail(to, subject, body)
			}})
			emailAttempts++
		}
	}

	if sendSMS && n.sms != nil && user.Phone != nil && *user.Phone != "" {
		phone, carrier := *user.Phone, user.SMSCarrier
		for _, bucket := range []struct {
			kind  domain.AlertKind
			items []domain.Alert
		}{{domain.AlertOverdue, overdue}, {domain.AlertUpcoming, upcoming}} {
			if len(bucket.items) == 0 {
				continue
			}
			msg := composeSMS(bucket.kind, bucket.items)
			jobs = append(jobs, job{channel: "sms", run: func() error {
				return n.sms.SendSMS(ctx, phone, carrier, msg)
			}})
		}
	}

	settled := make(chan DispatchResult, 1)
	if len(jobs) == 0 {
		settled <- DispatchResult{}
		close(settled)
		return DispatchOutcome{Settled: settled}
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			if err := j.run(); err != nil {
				log.Printf("WARN: %s dispatch failed: %v", j.channel, err)
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}(j)
	}
	go func() {
		wg.Wait()
		mu.Lock()
		ok := succeeded
		mu.Unlock()
		log.Printf("dispatched %d/%d deadline notifications to %s", ok, len(jobs), user.Name)
		settled <- DispatchResult{Attempted: len(jobs), Succeeded: ok}
		close(settled)
	}()

	return DispatchOutcome{Attempts: len(jobs), EmailAttempts: emailAttempts, Settled: settled}
}

func composeEmail(user *domain.User, kind domain.AlertKind, items []domain.Alert) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", user.Name)

	if kind == domain.AlertUpcoming {
		subject = "Upcoming Deadlines - Taskboard"
		b.WriteString("You have the following tasks and projects approaching their deadlines:\n\n")
	} else {
		subject = "Overdue Items - Taskboard"
		b.WriteString("You have the following overdue tasks and projects:\n\n")
	}

	for _, item := range items {
		label := sourceLabel(item.Source)
		due := item.Due.Format("Jan 2, 2006")
		if kind == domain.AlertUpcoming {
			fmt.Fprintf(&b, "- %s: %q - Due in %s (%s)\n", label, item.Title, daysPhrase(item.DaysLeft), due)
		} else {
			fmt.Fprintf(&b, "- %s: %q - Was due on %s\n", label, item.Title, due)
		}
	}

	b.WriteString("\nPlease review these items on your Taskboard dashboard.\n\nBest regards,\nTaskboard Notifications")
	return subject, b.String()
}

func composeSMS(kind domain.AlertKind, items []domain.Alert) string {
	if len(items) == 1 {
		item := items[0]
		if kind == domain.AlertUpcoming {
			return fmt.Sprintf("Taskboard Alert: %s %q due in %s", sourceLabel(item.Source), item.Title, daysPhrase(item.DaysLeft))
		}
		return fmt.Sprintf("Taskboard Alert: %s %q is overdue", sourceLabel(item.Source), item.Title)
	}
	if kind == domain.AlertUpcoming {
		return fmt.Sprintf("Taskboard Alert: %d items approaching deadline", len(items))
	}
	return fmt.Sprintf("Taskboard Alert: %d items are overdue", len(items))
}

func sourceLabel(s domain.AlertSource) string {
	if s == domain.SourceProject {
		return "Project"
	}
	return "Task"
}

// daysPhrase renders a day count for humans: "1 day", otherwise "N days".
func daysPhrase(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
