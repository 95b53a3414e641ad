// Package apperr is the error taxonomy shared by every portfolio component.
// Errors are classified by a Kind (what the boundary maps to a status) and a
// Reason (which entity or rule failed). Both are strings so they serialize
// naturally into API responses and logs.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the coarse class of an error.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindConflict        Kind = "CONFLICT"
	KindInvalidState    Kind = "INVALID_STATE"
	KindInternal        Kind = "INTERNAL"
)

// Reason narrows a Kind down to the entity or rule involved.
type Reason string

const (
	// not found
	ReasonProject      Reason = "PROJECT"
	ReasonMedia        Reason = "MEDIA"
	ReasonRequest      Reason = "REQUEST"
	ReasonCollaborator Reason = "COLLABORATOR"
	ReasonAccount      Reason = "ACCOUNT"
	ReasonLink         Reason = "LINK"

	// invalid argument
	ReasonNullID          Reason = "NULL_ID"
	ReasonNullField       Reason = "NULL_FIELD"
	ReasonInvalidDecision Reason = "INVALID_DECISION"

	// conflict
	ReasonDuplicatePath     Reason = "DUPLICATE_PATH"
	ReasonDuplicateUsername Reason = "DUPLICATE_USERNAME"
	ReasonDuplicateLink     Reason = "DUPLICATE_LINK"

	// invalid state
	ReasonRequestNotOpen Reason = "REQUEST_NOT_OPEN"

	ReasonUnknown Reason = "UNKNOWN"
)

// Error is a classified error. Two Errors match under errors.Is when their
// Kind and Reason are equal, so the sentinels below can be compared against
// errors carrying a more specific message or cause.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Reason == e.Reason
}

var (
	ErrProjectNotFound      = &Error{Kind: KindNotFound, Reason: ReasonProject, Message: "project not found"}
	ErrMediaNotFound        = &Error{Kind: KindNotFound, Reason: ReasonMedia, Message: "media not found"}
	ErrRequestNotFound      = &Error{Kind: KindNotFound, Reason: ReasonRequest, Message: "request not found"}
	ErrCollaboratorNotFound = &Error{Kind: KindNotFound, Reason: ReasonCollaborator, Message: "collaborator not found"}
	ErrAccountNotFound      = &Error{Kind: KindNotFound, Reason: ReasonAccount, Message: "account not found"}
	ErrLinkNotFound         = &Error{Kind: KindNotFound, Reason: ReasonLink, Message: "link not found"}

	ErrNullID          = &Error{Kind: KindInvalidArgument, Reason: ReasonNullID, Message: "null id not accepted"}
	ErrNullField       = &Error{Kind: KindInvalidArgument, Reason: ReasonNullField, Message: "required field missing"}
	ErrInvalidDecision = &Error{Kind: KindInvalidArgument, Reason: ReasonInvalidDecision, Message: "decision must be approve or reject"}

	ErrDuplicatePath     = &Error{Kind: KindConflict, Reason: ReasonDuplicatePath, Message: "media path already in use"}
	ErrDuplicateUsername = &Error{Kind: KindConflict, Reason: ReasonDuplicateUsername, Message: "username already taken"}
	ErrDuplicateLink     = &Error{Kind: KindConflict, Reason: ReasonDuplicateLink, Message: "link already exists"}

	ErrRequestNotOpen = &Error{Kind: KindInvalidState, Reason: ReasonRequestNotOpen, Message: "request is not open"}
)

// New builds a classified error with a formatted message.
func New(kind Kind, reason Reason, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause like the sentinel base and keeps the sentinel's
// message as prefix.
func Wrap(base *Error, cause error) *Error {
	return &Error{Kind: base.Kind, Reason: base.Reason, Message: base.Message, Err: cause}
}

// NotFound reports a missing entity identified by id.
func NotFound(reason Reason, id fmt.Stringer) *Error {
	return New(KindNotFound, reason, "no %s with the id %s could be found", reasonNoun(reason), id)
}

// NullField reports a missing required field.
func NullField(field string) *Error {
	return New(KindInvalidArgument, ReasonNullField, "field %q is required", field)
}

// As returns the classified error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf classifies any error. Unclassified errors are internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf returns the reason of a classified error or ReasonUnknown.
func ReasonOf(err error) Reason {
	if e, ok := As(err); ok {
		return e.Reason
	}
	return ReasonUnknown
}

func reasonNoun(r Reason) string {
	switch r {
	case ReasonProject:
		return "project"
	case ReasonMedia:
		return "media"
	case ReasonRequest:
		return "request"
	case ReasonCollaborator:
		return "collaborator"
	case ReasonAccount:
		return "account"
	case ReasonLink:
		return "link"
	default:
		return "entity"
	}
}
