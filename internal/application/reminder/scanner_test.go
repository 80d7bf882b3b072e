package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-api/internal/domain"
)

var scanNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func taskDue(id, title, status string, due time.Time) domain.Task {
	return domain.Task{TaskID: id, Title: title, Status: status, DueDate: &due}
}

func projectDue(id, name, status string, deadline time.Time) domain.Project {
	return domain.Project{ProjectID: id, Name: name, Status: status, Deadline: &deadline}
}

func TestScan_OverdueTask(t *testing.T) {
	tasks := []domain.Task{taskDue("7", "Ship report", domain.TaskStatusInProgress, scanNow.Add(-time.Hour))}
	res := Scan(scanNow, 3, tasks, nil)

	require.Len(t, res.Overdue, 1)
	assert.Empty(t, res.Upcoming)
	assert.Equal(t, "reminder-overdue-task-7", res.Overdue[0].Identifier)
	assert.Equal(t, "Ship report", res.Overdue[0].Title)
}

func TestScan_TerminalStatusesNeverAlert(t *testing.T) {
	overdue := scanNow.Add(-time.Hour)
	tasks := []domain.Task{
		taskDue("1", "done", domain.TaskStatusCompleted, overdue),
		taskDue("2", "dropped", domain.TaskStatusCancelled, overdue),
	}
	res := Scan(scanNow, 3, tasks, nil)
	assert.Empty(t, res.Overdue)
	assert.Empty(t, res.Upcoming)
}

func TestScan_CompletedProjectCaseInsensitive(t *testing.T) {
	projects := []domain.Project{
		projectDue("p1", "Migration", "Completed", scanNow.Add(-time.Hour)),
		projectDue("p2", "Rollout", "active", scanNow.Add(-time.Hour)),
	}
	res := Scan(scanNow, 3, nil, projects)

	require.Len(t, res.Overdue, 1)
	assert.Equal(t, "reminder-overdue-project-p2", res.Overdue[0].Identifier)
}

func TestScan_NoDueDateSkipped(t *testing.T) {
	tasks := []domain.Task{{TaskID: "1", Title: "floating", Status: domain.TaskStatusTodo}}
	projects := []domain.Project{{ProjectID: "p1", Name: "open-ended", Status: "active"}}
	res := Scan(scanNow, 3, tasks, projects)
	assert.Empty(t, res.Overdue)
	assert.Empty(t, res.Upcoming)
}

func TestScan_UpcomingWindowIsClosed(t *testing.T) {
	tasks := []domain.Task{
		taskDue("at-now", "due now", domain.TaskStatusTodo, scanNow),
		taskDue("at-horizon", "due at horizon", domain.TaskStatusTodo, scanNow.Add(3*24*time.Hour)),
		taskDue("past-horizon", "too far", domain.TaskStatusTodo, scanNow.Add(3*24*time.Hour+time.Second)),
	}
	res := Scan(scanNow, 3, tasks, nil)

	assert.Empty(t, res.Overdue)
	require.Len(t, res.Upcoming, 2)
	assert.Equal(t, "reminder-upcoming-task-at-now", res.Upcoming[0].Identifier)
	assert.Equal(t, "reminder-upcoming-task-at-horizon", res.Upcoming[1].Identifier)
}

func TestScan_DaysLeftRoundsUp(t *testing.T) {
	tasks := []domain.Task{
		taskDue("a", "due in half a day", domain.TaskStatusTodo, scanNow.Add(12*time.Hour)),
		taskDue("b", "due in exactly one day", domain.TaskStatusTodo, scanNow.Add(24*time.Hour)),
		taskDue("c", "due right now", domain.TaskStatusTodo, scanNow),
		taskDue("d", "due in three days", domain.TaskStatusTodo, scanNow.Add(3*24*time.Hour)),
	}
	res := Scan(scanNow, 3, tasks, nil)

	require.Len(t, res.Upcoming, 4)
	assert.Equal(t, 1, res.Upcoming[0].DaysLeft)
	assert.Equal(t, 1, res.Upcoming[1].DaysLeft)
	assert.Equal(t, 0, res.Upcoming[2].DaysLeft)
	assert.Equal(t, 3, res.Upcoming[3].DaysLeft)
}

func TestScan_MixedCollections(t *testing.T) {
	tasks := []domain.Task{
		taskDue("1", "late task", domain.TaskStatusReview, scanNow.Add(-48*time.Hour)),
		taskDue("2", "soon task", domain.TaskStatusTodo, scanNow.Add(24*time.Hour)),
	}
	projects := []domain.Project{
		projectDue("p1", "late project", "active", scanNow.Add(-time.Minute)),
		projectDue("p2", "soon project", "active", scanNow.Add(48*time.Hour)),
	}
	res := Scan(scanNow, 3, tasks, projects)

	require.Len(t, res.Overdue, 2)
	require.Len(t, res.Upcoming, 2)
	assert.Equal(t, domain.SourceTask, res.Overdue[0].Source)
	assert.Equal(t, domain.SourceProject, res.Overdue[1].Source)
	assert.Equal(t, 2, res.Upcoming[1].DaysLeft)
}

func TestScan_IdentifierIsStableAcrossScans(t *testing.T) {
	tasks := []domain.Task{taskDue("42", "same task", domain.TaskStatusTodo, scanNow.Add(-time.Hour))}
	first := Scan(scanNow, 3, tasks, nil)
	second := Scan(scanNow.Add(5*time.Minute), 3, tasks, nil)

	require.Len(t, first.Overdue, 1)
	require.Len(t, second.Overdue, 1)
	assert.Equal(t, first.Overdue[0].Identifier, second.Overdue[0].Identifier)
}
