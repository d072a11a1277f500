package httpapp_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alphabot-ai/skillswap/internal/auth"
	"github.com/alphabot-ai/skillswap/internal/client"
	"github.com/alphabot-ai/skillswap/internal/config"
	httpapp "github.com/alphabot-ai/skillswap/internal/http"
	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/rate"
	"github.com/alphabot-ai/skillswap/internal/store/sqlite"
)

func TestEndToEndServer(t *testing.T) {
	st, err := sqlite.Open("file:e2e_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	cfg := config.Config{
		Addr: ":0",
		RateLimits: config.RateLimits{
			AuthPerMinute:   1000,
			SkillPerMinute:  1000,
			SwapPerMinute:   1000,
			RatingPerMinute: 1000,
			AdminPerMinute:  1000,
		},
		TokenSecret:  "e2e-secret",
		TokenTTL:     time.Hour,
		ChallengeTTL: time.Minute,
	}
	limiter := rate.NewMemory()
	authSvc := auth.NewService(st, cfg.TokenSecret, cfg.TokenTTL, cfg.ChallengeTTL)
	server := httpapp.NewServer(st, authSvc, limiter, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	httpServer := &http.Server{Handler: server}
	go func() {
		_ = httpServer.Serve(listener)
	}()
	defer httpServer.Close()

	baseURL := "http://" + listener.Addr().String()
	helper := client.NewTestHelper(baseURL)

	admin, _, err := helper.CreateAuthenticatedClient("e2e-admin")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if err := st.SetAccountRole(context.Background(), admin.AccountID, model.RoleAdmin); err != nil {
		t.Fatalf("promote: %v", err)
	}
	member, _, err := helper.CreateAuthenticatedClient("e2e-member")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	skill, err := member.AddSkill("Pottery", model.SkillOffered)
	if err != nil {
		t.Fatalf("add skill: %v", err)
	}
	if _, err := admin.ModerateSkill(skill.ID, "reject"); err != nil {
		t.Fatalf("reject skill: %v", err)
	}
	if _, err := admin.ModerateSkill(skill.ID, "approve"); err != nil {
		t.Fatalf("approve skill: %v", err)
	}
	if _, err := admin.SetBanned(member.AccountID, true); err != nil {
		t.Fatalf("ban: %v", err)
	}
	if _, err := admin.Broadcast("Welcome", "Hello everyone", ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	entries, err := admin.AuditLog("", 0, 10)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	want := []model.AuditAction{model.ActionSendMessage, model.ActionBanUser, model.ActionApproveSkill, model.ActionRejectSkill}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, action := range want {
		if entries[i].Action != action {
			t.Fatalf("entry %d: expected %s, got %s", i, action, entries[i].Action)
		}
	}

	report, err := admin.Report()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.ActiveAccounts != 1 {
		t.Fatalf("expected banned member to be excluded, got %d", report.ActiveAccounts)
	}
}
