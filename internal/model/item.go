package model

import (
	"errors"
	"strings"
	"time"
)

// Status is the lifecycle state of an item.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// statusLabels is the single source of display labels; every surface
// (table, form, CLI output) goes through Label.
var statusLabels = map[Status]string{
	StatusTodo:  "Todo",
	StatusDoing: "Doing",
	StatusDone:  "Done",
}

// Label returns the display label for s, falling back to the raw value
// for statuses this client does not know about.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// All returns the statuses in selector order.
func All() []Status {
	return []Status{StatusTodo, StatusDoing, StatusDone}
}

// ParseStatus maps user input ("doing", "Doing") to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", errors.New("unknown status: " + s)
	}
	return st, nil
}

// Item is a record as served by the items API. ID and the timestamps are
// server-assigned; the client never writes them.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      Status    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FormData is the client-writable subset of an item, sent on create.
type FormData struct {
	Name        string `json:"name"`
	Status      Status `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
}

// Patch is a partial update: only non-nil fields are serialized, so the
// server changes nothing else.
type Patch struct {
	Name        *string `json:"name,omitempty"`
	Status      *Status `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Empty reports whether the patch carries no changes at all.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Status == nil && p.Description == nil
}

var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooShort = errors.New("name must be at least 3 characters")
)

const minNameLen = 3

// ValidateName applies the client-side name rules. It runs before any
// network call; a failure here means no request is made.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameRequired
	}
	if len([]rune(trimmed)) < minNameLen {
		return ErrNameTooShort
	}
	return nil
}
