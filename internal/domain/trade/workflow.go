package trade

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// Actor is the caller of a workflow operation together with its capabilities.
// Capabilities come from the identity context (group membership); the
// workflow only ever asks the three yes/no questions below.
type Actor struct {
	ID       uuid.UUID
	Username string
	Maker    bool
	Checker  bool
	Admin    bool
}

// IsAdmin reports whether the actor is a superuser
func IsAdmin(a Actor) bool {
	return a.Admin
}

// IsMaker reports whether the actor may draft and submit documents.
// Admin implies maker.
func IsMaker(a Actor) bool {
	return a.Admin || a.Maker
}

// IsChecker reports whether the actor may approve, reject or disable documents.
// Admin implies checker.
func IsChecker(a Actor) bool {
	return a.Admin || a.Checker
}

// HasAnyRole reports whether the actor holds at least one workflow role
func HasAnyRole(a Actor) bool {
	return IsMaker(a) || IsChecker(a)
}

// Action names a workflow operation
type Action string

const (
	ActionSubmit            Action = "submit"
	ActionApprove           Action = "approve"
	ActionReject            Action = "reject"
	ActionDisable           Action = "disable"
	ActionDeactivate        Action = "deactivate"
	ActionPermanentlyReject Action = "permanently reject"
	ActionDownloadPDF       Action = "download PDF of"
	ActionDownloadDraftPDF  Action = "download draft PDF of"
)

// Workflow is the behaviour shared by every document state machine.
// Each document type keeps its own status enum and transition table.
type Workflow interface {
	DocumentType() DocumentType
	StatusName() string
	CanEdit(actor Actor) bool
	Submit(actor Actor) error
	Approve(actor Actor) error
	Reject(actor Actor, notes string) error
	// Deactivate soft-deletes the document. It reports false when the
	// document was already inactive and nothing changed.
	Deactivate(actor Actor) (bool, error)
}

// statusIn reports whether s is one of allowed
func statusIn[S ~string](s S, allowed []S) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

func statusNames[S ~string](statuses []S) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}

// requireSource returns an invalid-transition error when current is outside
// the action's legal source set
func requireSource[S ~string](doc DocumentType, action Action, current S, allowed []S) error {
	if statusIn(current, allowed) {
		return nil
	}
	return shared.NewInvalidTransitionError(string(action), doc.Label(), string(current), statusNames(allowed))
}

// requireNotes enforces mandatory rejection comments
func requireNotes(notes string) (string, error) {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return "", shared.NewValidationError("notes", "Rejection requires comments for rework.")
	}
	return trimmed, nil
}

func notAllowed(action Action) error {
	return shared.NewForbiddenError("Not allowed to " + string(action) + ".")
}
