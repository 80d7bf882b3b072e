package reminder

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"github.com/taskboard-api/internal/domain"
)

// ErrScanInFlight is returned when a scan cycle is requested while a
// previous one is still running.
var ErrScanInFlight = errors.New("scan cycle already in flight")

// TaskSource is the read-only task collection the scanner consumes.
type TaskSource interface {
	List(ctx context.Context) ([]domain.Task, error)
}

// ProjectSource is the read-only project collection the scanner consumes.
type ProjectSource interface {
	List(ctx context.Context) ([]domain.Project, error)
}

// UserSource resolves the user the engine scans on behalf of. A nil user
// with a nil error means no user is configured.
type UserSource interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// StateStore persists the engine's whole state with load/replace semantics.
type StateStore interface {
	Load(ctx context.Context) (*domain.ReminderState, error)
	Save(ctx context.Context, s *domain.ReminderState) error
}

// ServiceDeps wires the scan-cycle service.
type ServiceDeps struct {
	Tasks    TaskSource
	Projects ProjectSource
	Users    UserSource
	State    StateStore
	Notifier *Notifier

	LookaheadDays  int
	SentRetention  time.Duration // sent-log entry eviction window
	StampRetention time.Duration // quota stamp eviction window
}

// Service runs the periodic scan pipeline: scan, dedup against the sent
// log, apply the daily email quota, dispatch, persist. One cycle runs at a
// time; overlapping invocations are rejected so state is never
// double-appended and the quota never double-stamped.
type Service struct {
	deps     ServiceDeps
	inFlight atomic.Bool
}

func NewService(deps ServiceDeps) *Service {
	return &Service{deps: deps}
}

// RunScanCycle executes one full scan cycle at the given time. Channel-send
// failures never surface here; the only errors returned are an overlapping
// scan or a failure to read the task/project collections.
func (s *Service) RunScanCycle(ctx context.Context, now time.Time) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrScanInFlight
	}
	defer s.inFlight.Store(false)

	user, err := s.deps.Users.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Printf("reminder: no current user, skipping scan")
			return nil
		}
		return err
	}
	if user == nil {
		log.Printf("reminder: no current user, skipping scan")
		return nil
	}
	// Both channels off: skip before touching the collections.
	if !user.Notifications.Email && !user.Notifications.SMS {
		log.Printf("reminder: notifications disabled for %s, skipping scan", user.Name)
		return nil
	}

	tasks, err := s.deps.Tasks.List(ctx)
	if err != nil {
		return err
	}
	projects, err := s.deps.Projects.List(ctx)
	if err != nil {
		return err
	}

	state, err := s.deps.State.Load(ctx)
	if err != nil {
		log.Printf("WARN: reminder state load failed, starting from empty state: %v", err)
		state = domain.NewReminderState("")
	}

	result := Scan(now, s.deps.LookaheadDays, tasks, projects)

	var newOverdue, newUpcoming []domain.Alert
	for _, a := range result.Overdue {
		if !state.HasSent(domain.AlertOverdue, a.Identifier) {
			newOverdue = append(newOverdue, a)
		}
	}
	for _, a := range result.Upcoming {
		if !state.HasSent(domain.AlertUpcoming, a.Identifier) {
			newUpcoming = append(newUpcoming, a)
		}
	}

	live := make(map[string]bool, len(tasks)+len(projects))
	for _, t := range tasks {
		live[domain.SourceKey(domain.SourceTask, t.TaskID)] = true
	}
	for _, p := range projects {
		live[domain.SourceKey(domain.SourceProject, p.ProjectID)] = true
	}
	pruned := state.Prune(now, s.deps.SentRetention, s.deps.StampRetention, live)

	if len(newOverdue) == 0 && len(newUpcoming) == 0 {
		if pruned > 0 {
			s.save(ctx, state, now)
		}
		return nil
	}

	log.Printf("reminder: %d new overdue, %d new upcoming for %s", len(newOverdue), len(newUpcoming), user.Name)

	shouldSendEmail := user.Notifications.Email && !state.HasQuotaStamp(user.Email, now)
	shouldSendSMS := user.Notifications.SMS
	if user.Notifications.Email && !shouldSendEmail {
		log.Printf("reminder: email quota consumed for %s today, skipping email", user.Email)
	}

	outcome := s.deps.Notifier.Dispatch(ctx, user, newOverdue, newUpcoming, shouldSendEmail, shouldSendSMS)

	// The sent log records the dispatch ATTEMPT, not its result: a failed
	// send is not retried. State is persisted before the sends settle.
	for _, a := range newOverdue {
		state.MarkSent(domain.AlertOverdue, a.Identifier, now)
	}
	for _, a := range newUpcoming {
		state.MarkSent(domain.AlertUpcoming, a.Identifier, now)
	}
	if shouldSendEmail && outcome.EmailAttempts > 0 {
		state.StampQuota(user.Email, now)
	}

	s.save(ctx, state, now)
	return nil
}

func (s *Service) save(ctx context.Context, state *domain.ReminderState, now time.Time) {
	state.UpdatedAt = now
	if err := s.deps.State.Save(ctx, state); err != nil {
		log.Printf("WARN: reminder state save failed: %v", err)
	}
}
