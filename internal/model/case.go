package model

import (
	"fmt"
	"time"
)

// CaseStatus represents the lifecycle state of a case
type CaseStatus string

const (
	CaseStatusPending CaseStatus = "pending" // opened by client, awaiting review
	CaseStatusOpen    CaseStatus = "open"    // accepted and in progress
	CaseStatusClosed  CaseStatus = "closed"
)

// IsValid returns true if the status is a known case status
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusPending, CaseStatusOpen, CaseStatusClosed:
		return true
	default:
		return false
	}
}

// CasePriority indicates urgency of a case
type CasePriority string

const (
	CasePriorityLow    CasePriority = "low"
	CasePriorityMedium CasePriority = "medium"
	CasePriorityHigh   CasePriority = "high"
	CasePriorityUrgent CasePriority = "urgent"
)

// IsValid returns true if the priority is a known case priority
func (p CasePriority) IsValid() bool {
	switch p {
	case CasePriorityLow, CasePriorityMedium, CasePriorityHigh, CasePriorityUrgent:
		return true
	default:
		return false
	}
}

// CaseResult records how a closed case ended
type CaseResult string

const (
	CaseResultWin        CaseResult = "win"
	CaseResultLoss       CaseResult = "loss"
	CaseResultSettlement CaseResult = "settlement"
	CaseResultDismissed  CaseResult = "dismissed"
	CaseResultWithdrawn  CaseResult = "withdrawn"
)

// CaseDocument is a document attached to a case
type CaseDocument struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	CreatedBy string    `bson:"createdBy" json:"created_by"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
}

// CaseNote is a freeform note on a case, optionally internal-only
type CaseNote struct {
	ID        string    `bson:"id" json:"id"`
	Content   string    `bson:"content" json:"content"`
	CreatedBy string    `bson:"createdBy" json:"created_by"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	Internal  bool      `bson:"internal" json:"internal"`
}

// Case represents a legal matter opened for a client
type Case struct {
	Meta              `bson:",inline"`
	GuildID           string         `bson:"guildId" json:"guild_id"`
	CaseNumber        string         `bson:"caseNumber" json:"case_number"`
	ClientID          string         `bson:"clientId" json:"client_id"`
	ClientUsername    string         `bson:"clientUsername" json:"client_username"`
	Title             string         `bson:"title" json:"title"`
	Description       string         `bson:"description" json:"description"`
	Status            CaseStatus     `bson:"status" json:"status"`
	Priority          CasePriority   `bson:"priority" json:"priority"`
	LeadAttorneyID    string         `bson:"leadAttorneyId,omitempty" json:"lead_attorney_id,omitempty"`
	AssignedAttorneys []string       `bson:"assignedAttorneys" json:"assigned_attorneys"`
	ChannelID         string         `bson:"channelId,omitempty" json:"channel_id,omitempty"`
	Result            CaseResult     `bson:"result,omitempty" json:"result,omitempty"`
	ResultNotes       string         `bson:"resultNotes,omitempty" json:"result_notes,omitempty"`
	ClosedAt          *time.Time     `bson:"closedAt,omitempty" json:"closed_at,omitempty"`
	ClosedBy          string         `bson:"closedBy,omitempty" json:"closed_by,omitempty"`
	Documents         []CaseDocument `bson:"documents" json:"documents"`
	Notes             []CaseNote     `bson:"notes" json:"notes"`
}

// IsAssigned returns true if the given user is lead or assigned attorney
func (c *Case) IsAssigned(userID string) bool {
	if c.LeadAttorneyID == userID {
		return true
	}
	for _, id := range c.AssignedAttorneys {
		if id == userID {
			return true
		}
	}
	return false
}

// Business constraints
const (
	MaxActiveCasesPerClient = 5
	MaxCaseTitleLength      = 200
)

// FormatCaseNumber builds the firm's case number: AA-YYYY-NNNN-username
func FormatCaseNumber(year int, sequence int, clientUsername string) string {
	return fmt.Sprintf("AA-%d-%04d-%s", year, sequence, clientUsername)
}
