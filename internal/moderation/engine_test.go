package moderation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"
	"github.com/alphabot-ai/skillswap/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestEngine(repo Repository) *Engine {
	return NewEngine(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createAccount(t *testing.T, st store.Store, name string) int64 {
	t.Helper()
	id, _, err := st.CreateAccount(context.Background(),
		&model.Account{DisplayName: name, Public: true, CreatedAt: time.Now()},
		&model.AccountKey{Alg: "ed25519", PublicKey: "pk-" + name, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return id
}

func createSkill(t *testing.T, st store.Store, owner int64, name string) int64 {
	t.Helper()
	id, err := st.CreateSkill(context.Background(), &model.Skill{
		Name: name, Type: model.SkillOffered, Approved: true, AccountID: owner, CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("create skill: %v", err)
	}
	return id
}

func TestSetBanStateWritesAudit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	adminID := createAccount(t, st, "admin")
	userID := createAccount(t, st, "User7")

	engine := newTestEngine(st)
	admin := Admin{id: adminID}

	state, err := engine.SetBanState(ctx, admin, userID, true)
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if state.ID != userID || !state.Banned || state.DisplayName != "User7" {
		t.Fatalf("unexpected ban state: %+v", state)
	}

	entries, err := engine.ListAudit(ctx, admin, store.AuditListOpts{})
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Action != model.ActionBanUser || got.TargetType != model.TargetUser || got.TargetID != userID ||
		got.AdminID != adminID || got.Detail != "User7" {
		t.Fatalf("unexpected audit entry: %+v", got)
	}

	accounts, err := engine.ListAccounts(ctx, admin)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	var seen bool
	for _, acc := range accounts {
		if acc.ID == userID {
			seen = acc.Banned
		}
	}
	if !seen {
		t.Fatalf("expected listed account to be banned")
	}

	if _, err := engine.SetBanState(ctx, admin, userID, false); err != nil {
		t.Fatalf("unban: %v", err)
	}
	entries, _ = engine.ListAudit(ctx, admin, store.AuditListOpts{TargetType: model.TargetUser, TargetID: userID})
	if len(entries) != 2 || entries[0].Action != model.ActionUnbanUser {
		t.Fatalf("expected unban entry first, got %+v", entries)
	}
}

func TestRepeatedBanRecordsEachCall(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	admin := Admin{id: createAccount(t, st, "admin")}
	userID := createAccount(t, st, "target")

	engine := newTestEngine(st)
	for i := 0; i < 2; i++ {
		if _, err := engine.SetBanState(ctx, admin, userID, true); err != nil {
			t.Fatalf("ban %d: %v", i, err)
		}
	}
	entries, err := engine.ListAudit(ctx, admin, store.AuditListOpts{TargetID: userID})
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
}

func TestSetBanStateMissingAccount(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	admin := Admin{id: createAccount(t, st, "admin")}

	engine := newTestEngine(st)
	_, err := engine.SetBanState(ctx, admin, 9999, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	entries, _ := engine.ListAudit(ctx, admin, store.AuditListOpts{})
	if len(entries) != 0 {
		t.Fatalf("expected no audit entries, got %d", len(entries))
	}
}

func TestSetSkillApproval(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	admin := Admin{id: createAccount(t, st, "admin")}
	owner := createAccount(t, st, "owner")
	skillID := createSkill(t, st, owner, "Guitar")

	engine := newTestEngine(st)
	skill, err := engine.SetSkillApproval(ctx, admin, skillID, "reject")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if skill.Approved || skill.Name != "Guitar" || skill.AccountID != owner {
		t.Fatalf("unexpected skill: %+v", skill)
	}
	entries, _ := engine.ListAudit(ctx, admin, store.AuditListOpts{TargetType: model.TargetSkill})
	if len(entries) != 1 || entries[0].Action != model.ActionRejectSkill || entries[0].Detail != "Guitar" {
		t.Fatalf("unexpected audit entries: %+v", entries)
	}

	skill, err = engine.SetSkillApproval(ctx, admin, skillID, "approve")
	if err != nil || !skill.Approved {
		t.Fatalf("approve: %+v %v", skill, err)
	}
}

func TestSetSkillApprovalInvalidDecision(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	admin := Admin{id: createAccount(t, st, "admin")}
	skillID := createSkill(t, st, createAccount(t, st, "owner"), "Cooking")

	engine := newTestEngine(st)
	for _, decision := range []string{"maybe", "", "APPROVE"} {
		_, err := engine.SetSkillApproval(ctx, admin, skillID, decision)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("decision %q: expected ErrValidation, got %v", decision, err)
		}
	}
	skill, err := st.GetSkill(ctx, skillID)
	if err != nil {
		t.Fatalf("get skill: %v", err)
	}
	if !skill.Approved {
		t.Fatalf("skill should be untouched")
	}
	entries, _ := engine.ListAudit(ctx, admin, store.AuditListOpts{})
	if len(entries) != 0 {
		t.Fatalf("expected no audit entries, got %d", len(entries))
	}
}

func TestBroadcast(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	adminID := createAccount(t, st, "admin")
	admin := Admin{id: adminID}

	engine := newTestEngine(st)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	engine.now = func() time.Time { return fixed }

	msg, err := engine.Broadcast(ctx, admin, BroadcastInput{Title: "Maintenance", Body: "Down at noon", Type: model.MessageInfo})
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if msg.ID == 0 || msg.CreatedBy != adminID || !msg.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected message: %+v", msg)
	}
	entries, _ := engine.ListAudit(ctx, admin, store.AuditListOpts{TargetType: model.TargetPlatformMessage})
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Action != model.ActionSendMessage || entries[0].TargetID != msg.ID || entries[0].Detail != "Maintenance" {
		t.Fatalf("unexpected audit entry: %+v", entries[0])
	}

	if _, err := engine.Broadcast(ctx, admin, BroadcastInput{Title: "x", Body: "y", Type: "urgent"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad type, got %v", err)
	}
	if _, err := engine.Broadcast(ctx, admin, BroadcastInput{Body: "y"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing title, got %v", err)
	}
}

// auditFailingStore commits nothing because every audit append fails.
type auditFailingStore struct {
	*sqlite.Store
}

func (s auditFailingStore) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.InTx(ctx, func(tx store.Tx) error {
		return fn(auditFailingTx{Tx: tx})
	})
}

type auditFailingTx struct {
	store.Tx
}

func (auditFailingTx) AppendAudit(context.Context, *model.AuditEntry) (int64, error) {
	return 0, errors.New("disk I/O error")
}

func TestAuditFailureRollsBackMutation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	admin := Admin{id: createAccount(t, st, "admin")}
	userID := createAccount(t, st, "victim")

	engine := newTestEngine(auditFailingStore{Store: st})
	_, err := engine.SetBanState(ctx, admin, userID, true)
	if !errors.Is(err, ErrServerFault) {
		t.Fatalf("expected ErrServerFault, got %v", err)
	}
	var merr *Error
	if !errors.As(err, &merr) || merr.Public() != ErrServerFault.Error() {
		t.Fatalf("expected generic public message, got %v", err)
	}

	acc, err := st.GetAccount(ctx, userID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if acc.Banned {
		t.Fatalf("ban should have been rolled back")
	}
}

type failingSwapCounts struct {
	*sqlite.Store
}

func (failingSwapCounts) CountSwapsByStatus(context.Context) ([]model.SwapStatusCount, error) {
	return nil, errors.New("connection reset")
}

func TestGenerateReport(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	admin := Admin{id: createAccount(t, st, "admin")}
	other := createAccount(t, st, "other")
	createSkill(t, st, other, "Go")
	if _, err := st.CreateSwap(ctx, &model.SwapRequest{SenderID: admin.id, ReceiverID: other, SkillOffered: "a", SkillRequested: "b", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("create swap: %v", err)
	}

	report, err := newTestEngine(st).GenerateReport(ctx, admin)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.ActiveAccounts != 2 {
		t.Fatalf("expected 2 active accounts, got %d", report.ActiveAccounts)
	}
	if len(report.Swaps) != 1 || report.Swaps[0].Status != model.SwapPending || report.Swaps[0].Total != 1 {
		t.Fatalf("unexpected swaps: %+v", report.Swaps)
	}
	if report.Ratings.Total != 0 || report.Ratings.Average != 0 {
		t.Fatalf("unexpected ratings: %+v", report.Ratings)
	}
	if len(report.Skills) != 1 || report.Skills[0].Total != 1 {
		t.Fatalf("unexpected skills: %+v", report.Skills)
	}

	_, err = newTestEngine(failingSwapCounts{Store: st}).GenerateReport(ctx, admin)
	if !errors.Is(err, ErrServerFault) {
		t.Fatalf("expected ErrServerFault, got %v", err)
	}
}

func TestZeroAdminIsRefused(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	userID := createAccount(t, st, "member")
	skillID := createSkill(t, st, userID, "Knitting")
	engine := newTestEngine(st)

	cases := []struct {
		name string
		call func(Admin) error
	}{
		{"list accounts", func(a Admin) error { _, err := engine.ListAccounts(ctx, a); return err }},
		{"list swaps", func(a Admin) error { _, err := engine.ListSwaps(ctx, a); return err }},
		{"list audit", func(a Admin) error { _, err := engine.ListAudit(ctx, a, store.AuditListOpts{}); return err }},
		{"ban", func(a Admin) error { _, err := engine.SetBanState(ctx, a, userID, true); return err }},
		{"reject skill", func(a Admin) error { _, err := engine.SetSkillApproval(ctx, a, skillID, "reject"); return err }},
		{"broadcast", func(a Admin) error {
			_, err := engine.Broadcast(ctx, a, BroadcastInput{Title: "Hi", Body: "All", Type: model.MessageInfo})
			return err
		}},
		{"report", func(a Admin) error { _, err := engine.GenerateReport(ctx, a); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(Admin{}); !errors.Is(err, ErrAuthorizationDenied) {
				t.Fatalf("expected ErrAuthorizationDenied, got %v", err)
			}
		})
	}

	entries, err := st.ListAudit(ctx, store.AuditListOpts{})
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no audit entries, got %+v", entries)
	}
	account, err := st.GetAccount(ctx, userID)
	if err != nil || account.Banned {
		t.Fatalf("refused ban changed account: %+v %v", account, err)
	}
	skill, err := st.GetSkill(ctx, skillID)
	if err != nil || !skill.Approved {
		t.Fatalf("refused rejection changed skill: %+v %v", skill, err)
	}
	messages, err := st.ListPlatformMessages(ctx, 10)
	if err != nil || len(messages) != 0 {
		t.Fatalf("refused broadcast stored messages: %+v %v", messages, err)
	}
}
