package reminder

import (
	"math"
	"time"

	"github.com/taskboard-api/internal/domain"
)

const day = 24 * time.Hour

// ScanResult holds the deadline alerts derived from one pass over the task
// and project collections.
type ScanResult struct {
	Overdue  []domain.Alert
	Upcoming []domain.Alert
}

// Scan derives overdue and upcoming-deadline alerts from the current
// collections. It is a pure function of its inputs: no clock reads, no side
// effects. Tasks in a terminal status, completed projects (case-insensitive)
// and entities without a due date never produce alerts. The upcoming window
// is the closed interval [now, now+lookaheadDays].
func Scan(now time.Time, lookaheadDays int, tasks []domain.Task, projects []domain.Project) ScanResult {
	horizon := now.Add(time.Duration(lookaheadDays) * day)
	var res ScanResult

	for _, t := range tasks {
		if t.DueDate == nil || t.Terminal() {
			continue
		}
		switch {
		case t.DueDate.Before(now):
			res.Overdue = append(res.Overdue, taskAlert(t, domain.AlertOverdue, 0))
		case !t.DueDate.After(horizon):
			res.Upcoming = append(res.Upcoming, taskAlert(t, domain.AlertUpcoming, daysLeft(now, *t.DueDate)))
		}
	}

	for _, p := range projects {
		if p.Deadline == nil || p.Completed() {
			continue
		}
		switch {
		case p.Deadline.Before(now):
			res.Overdue = append(res.Overdue, projectAlert(p, domain.AlertOverdue, 0))
		case !p.Deadline.After(horizon):
			res.Upcoming = append(res.Upcoming, projectAlert(p, domain.AlertUpcoming, daysLeft(now, *p.Deadline)))
		}
	}

	return res
}

// daysLeft is ceil((deadline-now)/24h); a deadline exactly at now yields 0.
func daysLeft(now, deadline time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

func taskAlert(t domain.Task, kind domain.AlertKind, days int) domain.Alert {
	return domain.Alert{
		Identifier: domain.AlertIdentifier(kind, domain.SourceTask, t.TaskID),
		Kind:       kind,
		Source:     domain.SourceTask,
		SourceID:   t.TaskID,
		Title:      t.Title,
		Due:        *t.DueDate,
		DaysLeft:   days,
	}
}

func projectAlert(p domain.Project, kind domain.AlertKind, days int) domain.Alert {
	return domain.Alert{
		Identifier: domain.AlertIdentifier(kind, domain.SourceProject, p.ProjectID),
		Kind:       kind,
		Source:     domain.SourceProject,
		SourceID:   p.ProjectID,
		Title:      p.Name,
		Due:        *p.Deadline,
		DaysLeft:   days,
	}
}
