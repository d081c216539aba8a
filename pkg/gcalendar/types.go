package gcalendar

// CreateEventRequest is the input for creating an all-day Google
// Calendar event on a task's due date.
type CreateEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	Date        string // due date, "2006-01-02"
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID       string
	Summary  string
	HtmlLink string
	Date     string
}
