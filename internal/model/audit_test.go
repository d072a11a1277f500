package model

import "testing"

func TestAuditEntryValidate(t *testing.T) {
	cases := []struct {
		name  string
		entry AuditEntry
		ok    bool
	}{
		{"ban", AuditEntry{AdminID: 1, Action: ActionBanUser, TargetType: TargetUser, TargetID: 2}, true},
		{"message", AuditEntry{AdminID: 1, Action: ActionSendMessage, TargetType: TargetPlatformMessage, TargetID: 9}, true},
		{"unknown action", AuditEntry{AdminID: 1, Action: "DELETE_USER", TargetType: TargetUser, TargetID: 2}, false},
		{"unknown target", AuditEntry{AdminID: 1, Action: ActionBanUser, TargetType: "story", TargetID: 2}, false},
		{"mismatched target", AuditEntry{AdminID: 1, Action: ActionApproveSkill, TargetType: TargetUser, TargetID: 2}, false},
		{"missing admin", AuditEntry{Action: ActionBanUser, TargetType: TargetUser, TargetID: 2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseAuditAction(t *testing.T) {
	if _, err := ParseAuditAction("REJECT_SKILL"); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := ParseAuditAction("reject_skill"); err == nil {
		t.Fatalf("expected lowercase tag to be rejected")
	}
	if _, err := ParseAuditTarget("platform_message"); err != nil {
		t.Fatalf("parse target: %v", err)
	}
}
