package models

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestOpen     RequestStatus = "open"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

// Request is a collaborator's proposal to add or remove media on a project.
type Request struct {
	ID             uuid.UUID     `db:"id" json:"requestId"`
	ProjectID      uuid.UUID     `db:"project_id" json:"projectId"`
	CollaboratorID uuid.UUID     `db:"collaborator_id" json:"collaboratorId"`
	Description    string        `db:"description" json:"description"`
	Status         RequestStatus `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"createdAt"`
	ResolvedAt     *time.Time    `db:"resolved_at" json:"resolvedAt,omitempty"`
}

func (r *Request) Open() bool { return r.Status == RequestOpen }

type ProposalKind string

const (
	ProposeAdd    ProposalKind = "add"
	ProposeRemove ProposalKind = "remove"
)

// RequestMedia is the RequestMediaProject association.
type RequestMedia struct {
	RequestID uuid.UUID    `db:"request_id" json:"requestId"`
	MediaID   uuid.UUID    `db:"media_id" json:"mediaId"`
	Kind      ProposalKind `db:"kind" json:"kind"`
}

// RequestProposals lists the media a request would add and remove.
type RequestProposals struct {
	Added   []Media `json:"added"`
	Removed []Media `json:"removed"`
}
