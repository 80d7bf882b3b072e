package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-api/internal/domain"
)

// --- mocks ---

type mockTasks struct{ mock.Mock }

func (m *mockTasks) List(ctx context.Context) ([]domain.Task, error) {
	args := m.Called(ctx)
	if v, _ := args.Get(0).([]domain.Task); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProjects struct{ mock.Mock }

func (m *mockProjects) List(ctx context.Context) ([]domain.Project, error) {
	args := m.Called(ctx)
	if v, _ := args.Get(0).([]domain.Project); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) CurrentUser(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// countingMailer tallies sends. Dispatch settles in the background, so cycle
// tests poll the count instead of asserting right after RunScanCycle returns.
type countingMailer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingMailer) SendEmail(to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

func (c *countingMailer) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type countingSMS struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingSMS) SendSMS(ctx context.Context, phone, carrier, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

func (c *countingSMS) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// memStateStore keeps state in memory and counts saves.
type memStateStore struct {
	state   *domain.ReminderState
	loadErr error
	saves   int
}

func (m *memStateStore) Load(context.Context) (*domain.ReminderState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.state == nil {
		m.state = domain.NewReminderState("test")
	}
	return m.state, nil
}

func (m *memStateStore) Save(_ context.Context, s *domain.ReminderState) error {
	m.saves++
	m.state = s
	return nil
}

// --- fixtures ---

type cycleFixture struct {
	tasks    *mockTasks
	projects *mockProjects
	users    *mockUsers
	store    *memStateStore
	mailer   *countingMailer
	sms      *countingSMS
	svc      *Service
}

func newCycleFixture() *cycleFixture {
	f := &cycleFixture{
		tasks:    &mockTasks{},
		projects: &mockProjects{},
		users:    &mockUsers{},
		store:    &memStateStore{},
		mailer:   &countingMailer{},
		sms:      &countingSMS{},
	}
	f.svc = NewService(ServiceDeps{
		Tasks:          f.tasks,
		Projects:       f.projects,
		Users:          f.users,
		State:          f.store,
		Notifier:       NewNotifier(f.mailer, f.sms),
		LookaheadDays:  3,
		SentRetention:  7 * 24 * time.Hour,
		StampRetention: 48 * time.Hour,
	})
	return f
}

func emailOnlyUser() *domain.User {
	return &domain.User{
		UserID: "u1", Name: "Alice", Email: "alice@example.com",
		Notifications: domain.NotificationPrefs{Email: true},
		Enable:        true,
	}
}

func waitForCount(t *testing.T, want int, count func() int) {
	t.Helper()
	require.Eventually(t, func() bool { return count() == want }, 2*time.Second, 10*time.Millisecond)
}

// --- tests ---

func TestRunScanCycle_NoUserSkipsCollections(t *testing.T) {
	f := newCycleFixture()
	f.users.On("CurrentUser", mock.Anything).Return(nil, nil)

	err := f.svc.RunScanCycle(context.Background(), scanNow)

	require.NoError(t, err)
	f.tasks.AssertNotCalled(t, "List", mock.Anything)
	assert.Zero(t, f.store.saves)
}

func TestRunScanCycle_AllChannelsDisabledSkipsCollections(t *testing.T) {
	f := newCycleFixture()
	u := emailOnlyUser()
	u.Notifications = domain.NotificationPrefs{}
	f.users.On("CurrentUser", mock.Anything).Return(u, nil)

	err := f.svc.RunScanCycle(context.Background(), scanNow)

	require.NoError(t, err)
	f.tasks.AssertNotCalled(t, "List", mock.Anything)
}

func TestRunScanCycle_CollectionErrorPropagates(t *testing.T) {
	f := newCycleFixture()
	f.users.On("CurrentUser", mock.Anything).Return(emailOnlyUser(), nil)
	f.tasks.On("List", mock.Anything).Return(nil, errors.New("dynamo throttled"))

	err := f.svc.RunScanCycle(context.Background(), scanNow)

	assert.EqualError(t, err, "dynamo throttled")
	assert.Zero(t, f.store.saves)
}

func TestRunScanCycle_DispatchesAndRecordsState(t *testing.T) {
	f := newCycleFixture()
	f.users.On("CurrentUser", mock.Anything).Return(emailOnlyUser(), nil)
	f.tasks.On("List", mock.Anything).Return([]domain.Task{
		taskDue("7", "Ship report", domain.TaskStatusTodo, scanNow.Add(-time.Hour)),
	}, nil)
	f.projects.On("List", mock.Anything).Return([]domain.Project{}, nil)

	err := f.svc.RunScanCycle(context.Background(), scanNow)

	require.NoError(t, err)
	// State is already persisted when the cycle returns, before the send settles.
	assert.Equal(t, 1, f.store.saves)
	assert.True(t, f.store.state.HasSent(domain.AlertOverdue, "reminder-overdue-task-7"))
	assert.True(t, f.store.state.HasQuotaStamp("alice@example.com", scanNow))
	waitForCount(t, 1, f.mailer.count)
}

func TestRunScanCycle_SecondCycleIsDeduplicated(t *testing.T) {
	f := newCycleFixture()
	f.users.On("CurrentUser", mock.Anything).Return(emailOnlyUser(), nil)
	f.tasks.On("List", mock.Anything).Return([]domain.Task{
		taskDue("7", "Ship report", domain.TaskStatusTodo, scanNow.Add(-time.Hour)),
	}, nil)
	f.projects.On("List", mock.Anything).Return([]domain.Project{}, nil)

	require.NoError(t, f.svc.RunScanCycle(context.Background(), scanNow))
	waitForCount(t, 1, f.mailer.count)
	require.NoError(t, f.svc.RunScanCycle(context.Background(), scanNow.Add(5*time.Minute)))

	assert.Equal(t, 1, f.mailer.count())
	assert.Equal(t, 1, f.store.saves, "a cycle with nothing new and nothing pruned does not rewrite state")
}

func TestRunScanCycle_EmailQuotaHoldsForNewAlertsSameDay(t *testing.T) {
	f := newCycleFixture()
	phone := "5551234567"
	u := emailOnlyUser()
	u.Phone = &phone
	u.SMSCarrier = "verizon"
	u.Notifications.SMS = true
	f.users.On("CurrentUser", mock.Anything).Return(u, nil)
	f.projects.On("List", mock.Anything).Return([]domain.Project{}, nil)

	first := []domain.Task{taskDue("1", "first", domain.TaskStatusTodo, scanNow.Add(-time.Hour))}
	second := append(first, taskDue("2", "second", domain.TaskStatusTodo, scanNow.Add(-time.Minute)))
	f.tasks.On("List", mock.Anything).Return(first, nil).Once()
	f.tasks.On("List", mock.Anything).Return(second, nil).Once()

	require.NoError(t, f.svc.RunScanCycle(context.Background(), scanNow))
	waitForCount(t, 1, f.mailer.count)
	require.NoError(t, f.svc.RunScanCycle(context.Background(), scanNow.Add(time.Hour)))

	// One email for the day; SMS is unmetered and fires both cycles.
	waitForCount(t, 2, f.sms.count)
	assert.Equal(t, 1, f.mailer.count())
	assert.True(t, f.store.state.HasSent(domain.AlertOverdue, "reminder-overdue-task-2"))
}

func TestRunScanCycle_QuotaStampedEvenWhenSendFails(t *testing.T) {
	f := newCycleFixture()
	f.mailer.err = errors.New("smtp down")
	f.users.On("CurrentUser", mock.Anything).Return(emailOnlyUser(), nil)
	f.tasks.On("List", mock.Anything).Return([]domain.Task{
		taskDue("7", "Ship report", domain.TaskStatusTodo, scanNow.Add(-time.Hour)),
	}, nil)
	f.projects.On("List", mock.Anything).Return([]domain.Project{}, nil)

	err := f.svc.RunScanCycle(context.Background(), scanNow)

	// Quota counts attempts, so a transport failure still consumes the day.
	require.NoError(t, err)
	assert.True(t, f.store.state.HasQuotaStamp("alice@example.com", scanNow))
	assert.True(t, f.store.state.HasSent(domain.AlertOverdue, "reminder-overdue-task-7"))
}

func TestRunScanCycle_PruneAloneTriggersSave(t *testing.T) {
	f := newCycleFixture()
	f.users.On("CurrentUser", mock.Anything).Return(emailOnlyUser(), nil)
	f.tasks.On("List", mock.Anything).Return([]domain.Task{}, nil)
	f.projects.On("List", mock.Anything).Return([]domain.Project{}, nil)

	f.store.state = domain.NewReminderState("test")
	f.store.state.MarkSent(domain.AlertOverdue, "reminder-overdue-task-old", scanNow.Add(-8*24*time.Hour))

	require.NoError(t, f.svc.RunScanCycle(context.Background(), scanNow))

	assert.Equal(t, 1, f.store.saves)
	assert.False(t, f.store.state.HasSent(domain.AlertOverdue, "reminder-overdue-task-old"))
}

func TestRunScanCycle_LoadFailureFallsBackToEmptyState(t *testing.T) {
	f := newCycleFixture()
	f.store.loadErr = errors.New("table missing")
	f.users.On("CurrentUser", mock.Anything).Return(emailOnlyUser(), nil)
	f.tasks.On("List", mock.Anything).Return([]domain.Task{
		taskDue("7", "Ship report", domain.TaskStatusTodo, scanNow.Add(-time.Hour)),
	}, nil)
	f.projects.On("List", mock.Anything).Return([]domain.Project{}, nil)

	err := f.svc.RunScanCycle(context.Background(), scanNow)

	require.NoError(t, err)
	waitForCount(t, 1, f.mailer.count)
}

// blockingUsers parks RunScanCycle inside the user lookup so an overlapping
// cycle can be attempted deterministically.
type blockingUsers struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingUsers) CurrentUser(context.Context) (*domain.User, error) {
	close(b.entered)
	<-b.release
	return nil, nil
}

func TestRunScanCycle_RejectsOverlappingCycle(t *testing.T) {
	f := newCycleFixture()
	users := &blockingUsers{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(ServiceDeps{
		Tasks: f.tasks, Projects: f.projects, Users: users, State: f.store,
		Notifier: NewNotifier(f.mailer, f.sms), LookaheadDays: 3,
	})

	done := make(chan error, 1)
	go func() { done <- svc.RunScanCycle(context.Background(), scanNow) }()
	<-users.entered

	err := svc.RunScanCycle(context.Background(), scanNow)
	assert.ErrorIs(t, err, ErrScanInFlight)

	close(users.release)
	require.NoError(t, <-done)
}
