package model

import "time"

// Audit actions recorded on privileged mutations.
const (
	AuditActionRoleGrant    = "role_grant"
	AuditActionRoleRevoke   = "role_revoke"
	AuditActionReportReview = "report_review"
)

// Audit target types
const (
	AuditTargetUser   = "user"
	AuditTargetReport = "report"
)

// AuditLog is an append-only record of a privileged administrative action.
type AuditLog struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	Action     string    `json:"action" db:"action"`
	TargetID   int64     `json:"targetId" db:"target_id"`
	TargetType string    `json:"targetType" db:"target_type"`
	Detail     string    `json:"detail" db:"detail"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	User *AuditActorRef `json:"user,omitempty" db:"-"`
}

// AuditActorRef is the acting-user summary embedded in audit listings.
type AuditActorRef struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// AuditLogListLimit caps audit listings to the most recent rows.
const AuditLogListLimit = 200
