package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/conversation"
	"github.com/AlmaBetter-School/ai-voice-assistant/pkg/gcalendar"
	pkgLog "github.com/AlmaBetter-School/ai-voice-assistant/pkg/log"
)

type calendarDispatcher struct {
	l          pkgLog.Logger
	calendar   *gcalendar.Client
	calendarID string
}

// NewCalendar creates a dispatcher that records confirmed tasks as
// all-day Google Calendar events on their due date.
func NewCalendar(l pkgLog.Logger, calendar *gcalendar.Client, calendarID string) conversation.ActionDispatcher {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &calendarDispatcher{
		l:          l,
		calendar:   calendar,
		calendarID: calendarID,
	}
}

func (d *calendarDispatcher) Submit(ctx context.Context, topicKey string, task conversation.DraftTask) conversation.DispatchResult {
	due := strings.TrimSpace(task.Due)
	if due == "" {
		return conversation.DispatchResult{Diagnostic: "task has no due date for a calendar event"}
	}

	event, err := d.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  d.calendarID,
		Summary:     strings.TrimSpace(task.Title),
		Description: strings.TrimSpace(task.Notes),
		Date:        due,
	})
	if err != nil {
		d.l.Warnf(ctx, "dispatcher: calendar event failed for %q: %v", topicKey, err)
		return conversation.DispatchResult{Diagnostic: fmt.Sprintf("calendar event failed: %v", err)}
	}

	d.l.Infof(ctx, "dispatcher: calendar event %s created for %q", event.ID, topicKey)
	return conversation.DispatchResult{OK: true}
}
