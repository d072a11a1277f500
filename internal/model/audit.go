package model

import (
	"fmt"
	"time"
)

// AuditAction is the closed set of privileged actions recorded in the audit log.
type AuditAction string

const (
	ActionBanUser      AuditAction = "BAN_USER"
	ActionUnbanUser    AuditAction = "UNBAN_USER"
	ActionApproveSkill AuditAction = "APPROVE_SKILL"
	ActionRejectSkill  AuditAction = "REJECT_SKILL"
	ActionSendMessage  AuditAction = "SEND_MESSAGE"
)

func (a AuditAction) Valid() bool {
	switch a {
	case ActionBanUser, ActionUnbanUser, ActionApproveSkill, ActionRejectSkill, ActionSendMessage:
		return true
	}
	return false
}

func ParseAuditAction(s string) (AuditAction, error) {
	a := AuditAction(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown audit action %q", s)
	}
	return a, nil
}

// AuditTarget names the kind of entity an audit entry points at.
type AuditTarget string

const (
	TargetUser            AuditTarget = "user"
	TargetSkill           AuditTarget = "skill"
	TargetPlatformMessage AuditTarget = "platform_message"
)

func (t AuditTarget) Valid() bool {
	switch t {
	case TargetUser, TargetSkill, TargetPlatformMessage:
		return true
	}
	return false
}

func ParseAuditTarget(s string) (AuditTarget, error) {
	t := AuditTarget(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown audit target %q", s)
	}
	return t, nil
}

// Target returns the target type an action is allowed to point at.
func (a AuditAction) Target() AuditTarget {
	switch a {
	case ActionBanUser, ActionUnbanUser:
		return TargetUser
	case ActionApproveSkill, ActionRejectSkill:
		return TargetSkill
	case ActionSendMessage:
		return TargetPlatformMessage
	}
	return ""
}

// AuditEntry is append-only: stores insert it and never update or delete it.
type AuditEntry struct {
	ID         int64       `json:"id"`
	AdminID    int64       `json:"admin_id"`
	Action     AuditAction `json:"action"`
	TargetType AuditTarget `json:"target_type"`
	TargetID   int64       `json:"target_id"`
	Detail     string      `json:"details"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Validate rejects entries whose tags fall outside the closed enumerations or
// whose action does not match the target type.
func (e AuditEntry) Validate() error {
	if !e.Action.Valid() {
		return fmt.Errorf("invalid audit action %q", e.Action)
	}
	if !e.TargetType.Valid() {
		return fmt.Errorf("invalid audit target %q", e.TargetType)
	}
	if e.Action.Target() != e.TargetType {
		return fmt.Errorf("audit action %s cannot target %s", e.Action, e.TargetType)
	}
	if e.AdminID == 0 || e.TargetID == 0 {
		return fmt.Errorf("audit entry requires admin and target ids")
	}
	return nil
}
