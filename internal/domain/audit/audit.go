package audit

import (
	"time"
)

// Category represents the type of audit event.
type Category string

const (
	CategoryAccount    Category = "account"
	CategoryMember     Category = "member"
	CategoryMembership Category = "membership"
	CategoryActivity   Category = "activity"
	CategoryEquipment  Category = "equipment"
	CategoryMessage    Category = "message"
	CategoryStamp      Category = "stamp"
	CategorySystem     Category = "system"
)

// Action represents the action that occurred.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionLogin      Action = "login"
	ActionLogout     Action = "logout"
	ActionSync       Action = "sync"
	ActionRegister   Action = "register"
	ActionDeactivate Action = "deactivate"
	ActionTerminate  Action = "terminate"
	ActionArchive    Action = "archive"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event represents a single audit log entry.
type Event struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Category     Category  `json:"category"`
	Action       Action    `json:"action"`
	Severity     Severity  `json:"severity"`
	ActorID      string    `json:"actor_id"`
	ResourceID   string    `json:"resource_id"`
	ResourceType string    `json:"resource_type"`
	Description  string    `json:"description"`
	Result       string    `json:"result"`
	Metadata     string    `json:"metadata"`
}

// NewEvent creates a new audit event.
// PRE: id is unique, action is non-empty
// POST: Returns an Event with the provided timestamp and fields
func NewEvent(id string, at time.Time, actorID string, category Category, action Action) Event {
	return Event{
		ID:        id,
		Timestamp: at,
		Category:  category,
		Action:    action,
		Severity:  SeverityInfo,
		ActorID:   actorID,
		Result:    "success",
	}
}

// WithSeverity sets the severity level.
// POST: Event severity is updated
func (e Event) WithSeverity(s Severity) Event {
	e.Severity = s
	return e
}

// WithResource sets resource information.
// POST: Event resource fields are populated
func (e Event) WithResource(resourceType, resourceID string) Event {
	e.ResourceType = resourceType
	e.ResourceID = resourceID
	return e
}

// WithDescription sets the event description.
// POST: Event description is set
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// WithResult records the outcome ("success" or "failure").
// POST: Event result is set
func (e Event) WithResult(result string) Event {
	e.Result = result
	return e
}

// WithMetadata sets optional JSON metadata.
// PRE: metadata is valid JSON or empty
// POST: Event metadata is set
func (e Event) WithMetadata(metadata string) Event {
	e.Metadata = metadata
	return e
}
