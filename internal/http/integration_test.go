package httpapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alphabot-ai/skillswap/internal/auth"
	"github.com/alphabot-ai/skillswap/internal/client"
	"github.com/alphabot-ai/skillswap/internal/config"
	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/rate"
	"github.com/alphabot-ai/skillswap/internal/store/sqlite"
)

type testClient struct {
	server *httptest.Server
	client *http.Client
	store  *sqlite.Store
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	cfg := config.Config{
		RateLimits: config.RateLimits{
			AuthPerMinute:   1000,
			SkillPerMinute:  1000,
			SwapPerMinute:   1000,
			RatingPerMinute: 1000,
			AdminPerMinute:  1000,
		},
	}
	return newTestClientWithConfig(t, cfg)
}

func newTestClientWithConfig(t *testing.T, cfg config.Config) *testClient {
	t.Helper()
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = "test-secret"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.ChallengeTTL == 0 {
		cfg.ChallengeTTL = time.Minute
	}
	dsnName := strings.NewReplacer("/", "_").Replace(t.Name())
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dsnName))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	limiter := rate.NewMemory()
	authSvc := auth.NewService(st, cfg.TokenSecret, cfg.TokenTTL, cfg.ChallengeTTL)
	server := NewServer(st, authSvc, limiter, cfg, discardLogger())
	ts := httptest.NewServer(server)
	t.Cleanup(func() {
		ts.Close()
		_ = st.Close()
	})
	return &testClient{server: ts, client: ts.Client(), store: st}
}

func (c *testClient) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response, out *T) {
	t.Helper()
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("json decode: %v (body %s)", err, string(body))
	}
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("expected %d, got %d: %s", want, resp.StatusCode, string(body))
	}
}

// createMember registers an account and returns an authenticated client.
func createMember(t *testing.T, tc *testClient, name string) *client.Client {
	t.Helper()
	helper := client.NewTestHelper(tc.server.URL)
	c, _, err := helper.CreateAuthenticatedClient(name)
	if err != nil {
		t.Fatalf("create member %s: %v", name, err)
	}
	return c
}

func createAdmin(t *testing.T, tc *testClient, name string) *client.Client {
	t.Helper()
	c := createMember(t, tc, name)
	if err := tc.store.SetAccountRole(context.Background(), c.AccountID, model.RoleAdmin); err != nil {
		t.Fatalf("promote %s: %v", name, err)
	}
	return c
}

func TestAccountAuthFlow(t *testing.T) {
	tc := newTestClient(t)

	creds, err := client.GenerateCredentials("ada")
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	c := client.New(tc.server.URL)
	id, err := c.Register(creds, "ada@example.com", "London")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := c.Register(creds, "", ""); err != client.ErrAlreadyRegistered {
		t.Fatalf("expected duplicate registration to conflict, got %v", err)
	}
	if err := c.Authenticate(creds); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if c.AccountID != id || c.Role != model.RoleUser {
		t.Fatalf("unexpected identity %d %s", c.AccountID, c.Role)
	}

	self, err := c.GetAccount(id)
	if err != nil {
		t.Fatalf("get self: %v", err)
	}
	if self.Email != "ada@example.com" {
		t.Fatalf("expected owner to see email, got %q", self.Email)
	}
	other, err := client.New(tc.server.URL).GetAccount(id)
	if err != nil {
		t.Fatalf("get anonymous: %v", err)
	}
	if other.Email != "" {
		t.Fatalf("expected email hidden from others")
	}

	token := c.Token
	if err := c.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	resp := tc.do(t, http.MethodGet, "/api/swaps", nil, token)
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

func TestUnregisteredKeyGetsNoToken(t *testing.T) {
	tc := newTestClient(t)

	creds, _ := client.GenerateCredentials("ghost")
	err := client.New(tc.server.URL).Authenticate(creds)
	if client.StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestSkillSwapRatingFlow(t *testing.T) {
	tc := newTestClient(t)
	alice := createMember(t, tc, "alice")
	bob := createMember(t, tc, "bob")
	carol := createMember(t, tc, "carol")

	skill, err := alice.AddSkill("Go", model.SkillOffered)
	if err != nil {
		t.Fatalf("add skill: %v", err)
	}
	if !skill.Approved {
		t.Fatalf("expected new skills to be approved")
	}
	if _, err := alice.AddSkill("Go", "teaching"); client.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("expected invalid type to be rejected, got %v", err)
	}
	browse, err := bob.BrowseSkills(model.SkillOffered, "go", 10)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(browse) != 1 || browse[0].AccountName != "alice" {
		t.Fatalf("unexpected browse result %+v", browse)
	}

	swap, err := alice.RequestSwap(bob.AccountID, "Go", "Guitar", "weekly?")
	if err != nil {
		t.Fatalf("request swap: %v", err)
	}
	if swap.Status != model.SwapPending || swap.ReceiverName != "bob" {
		t.Fatalf("unexpected swap %+v", swap)
	}
	if _, err := alice.RequestSwap(alice.AccountID, "Go", "Go", ""); client.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("expected self swap to be rejected, got %v", err)
	}

	// Only the receiver can answer.
	if _, err := alice.AnswerSwap(swap.ID, model.SwapAccepted); client.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected sender update to 404, got %v", err)
	}
	if _, err := bob.AnswerSwap(swap.ID, model.SwapPending); client.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("expected pending status to be rejected, got %v", err)
	}
	if _, err := alice.Rate(swap.ID, 5, ""); client.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("expected rating of pending swap to fail, got %v", err)
	}
	if _, err := bob.AnswerSwap(swap.ID, model.SwapAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	rating, err := alice.Rate(swap.ID, 5, "patient and clear")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rating.RatedID != bob.AccountID {
		t.Fatalf("expected bob to be rated, got %d", rating.RatedID)
	}
	if _, err := alice.Rate(swap.ID, 4, ""); client.StatusCode(err) != http.StatusConflict {
		t.Fatalf("expected duplicate rating to conflict, got %v", err)
	}
	if _, err := carol.Rate(swap.ID, 1, ""); client.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected outsider rating to 404, got %v", err)
	}
	if _, err := bob.Rate(swap.ID, 6, ""); client.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("expected score 6 to be rejected, got %v", err)
	}

	ratings, err := carol.Ratings(bob.AccountID)
	if err != nil {
		t.Fatalf("ratings: %v", err)
	}
	if len(ratings) != 1 || ratings[0].RaterName != "alice" {
		t.Fatalf("unexpected ratings %+v", ratings)
	}

	if err := carol.DeleteSwap(swap.ID); client.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected outsider delete to 404, got %v", err)
	}
	if err := bob.DeleteSwap(swap.ID); err != nil {
		t.Fatalf("delete swap: %v", err)
	}
	mine, err := alice.MySwaps()
	if err != nil {
		t.Fatalf("my swaps: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected swap to be gone, got %+v", mine)
	}

	if err := bob.DeleteSkill(skill.ID); client.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected foreign skill delete to 404, got %v", err)
	}
	if err := alice.DeleteSkill(skill.ID); err != nil {
		t.Fatalf("delete skill: %v", err)
	}
}

func TestAdminAuthFailures(t *testing.T) {
	tc := newTestClient(t)
	member := createMember(t, tc, "member")
	target := createMember(t, tc, "target")
	skill, err := target.AddSkill("Pottery", model.SkillOffered)
	if err != nil {
		t.Fatalf("add skill: %v", err)
	}

	routes := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/admin/users", nil},
		{http.MethodPut, fmt.Sprintf("/api/admin/users/%d/ban", target.AccountID), map[string]bool{"is_banned": true}},
		{http.MethodPut, fmt.Sprintf("/api/admin/skills/%d", skill.ID), map[string]string{"action": "reject"}},
		{http.MethodPost, "/api/admin/messages", map[string]string{"title": "Hi", "message": "All"}},
		{http.MethodGet, "/api/admin/reports", nil},
		{http.MethodGet, "/api/admin/swaps", nil},
		{http.MethodGet, "/api/admin/logs", nil},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			resp := tc.do(t, rt.method, rt.path, rt.body, "")
			expectStatus(t, resp, http.StatusUnauthorized)
			resp.Body.Close()

			resp = tc.do(t, rt.method, rt.path, rt.body, "garbage")
			expectStatus(t, resp, http.StatusUnauthorized)
			resp.Body.Close()

			resp = tc.do(t, rt.method, rt.path, rt.body, member.Token)
			expectStatus(t, resp, http.StatusForbidden)
			resp.Body.Close()
		})
	}

	admin := createAdmin(t, tc, "root")
	entries, err := admin.AuditLog("", 0, 0)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected refused calls to leave no audit, got %+v", entries)
	}
	users, err := admin.AdminUsers()
	if err != nil {
		t.Fatalf("admin users: %v", err)
	}
	for _, u := range users {
		if u.Banned {
			t.Fatalf("refused ban changed state: %+v", u)
		}
	}
	skills, err := target.AccountSkills(target.AccountID)
	if err != nil {
		t.Fatalf("skills: %v", err)
	}
	if len(skills) != 1 || !skills[0].Approved {
		t.Fatalf("refused rejection changed skill: %+v", skills)
	}
}

func TestAdminBanRequestBody(t *testing.T) {
	tc := newTestClient(t)
	admin := createAdmin(t, tc, "root")
	member := createMember(t, tc, "member")
	path := fmt.Sprintf("/api/admin/users/%d/ban", member.AccountID)

	resp := tc.do(t, http.MethodPut, path, map[string]bool{"is_banned": true}, admin.Token)
	expectStatus(t, resp, http.StatusOK)
	var state model.BanState
	decodeJSON(t, resp, &state)
	if !state.Banned || state.ID != member.AccountID {
		t.Fatalf("unexpected ban state %+v", state)
	}

	resp = tc.do(t, http.MethodPut, path, map[string]bool{"banned": false}, admin.Token)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = tc.do(t, http.MethodPut, path, map[string]string{}, admin.Token)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestAdminLogsFilterValidation(t *testing.T) {
	tc := newTestClient(t)
	admin := createAdmin(t, tc, "root")

	resp := tc.do(t, http.MethodGet, "/api/admin/logs?target_type=story", nil, admin.Token)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = tc.do(t, http.MethodGet, "/api/admin/logs?target_type=USER", nil, admin.Token)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()

	resp = tc.do(t, http.MethodGet, "/api/admin/logs?target_type=user", nil, admin.Token)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()
}

func TestAdminBanFlow(t *testing.T) {
	tc := newTestClient(t)
	admin := createAdmin(t, tc, "root")
	creds, _ := client.GenerateCredentials("spammer")
	spammer := client.New(tc.server.URL)
	if err := spammer.RegisterAndAuthenticate(creds); err != nil {
		t.Fatalf("spammer: %v", err)
	}

	state, err := admin.SetBanned(spammer.AccountID, true)
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if !state.Banned || state.DisplayName != "spammer" {
		t.Fatalf("unexpected ban state %+v", state)
	}

	// Existing tokens stop working and no new ones are issued.
	if _, err := spammer.MySwaps(); client.StatusCode(err) != http.StatusForbidden {
		t.Fatalf("expected banned token to be refused, got %v", err)
	}
	if err := spammer.Authenticate(creds); client.StatusCode(err) != http.StatusForbidden {
		t.Fatalf("expected banned login to be refused, got %v", err)
	}

	if _, err := admin.SetBanned(spammer.AccountID, true); err != nil {
		t.Fatalf("repeat ban: %v", err)
	}
	if _, err := admin.SetBanned(spammer.AccountID, false); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if err := spammer.Authenticate(creds); err != nil {
		t.Fatalf("expected login after unban: %v", err)
	}

	entries, err := admin.AuditLog(model.TargetUser, spammer.AccountID, 0)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(entries))
	}
	if entries[0].Action != model.ActionUnbanUser || entries[2].Action != model.ActionBanUser {
		t.Fatalf("expected newest first, got %+v", entries)
	}
	if entries[0].AdminID != admin.AccountID || entries[0].Detail != "spammer" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}

	if _, err := admin.SetBanned(99999, true); client.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected missing account to 404, got %v", err)
	}
	resp := tc.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/ban", spammer.AccountID), map[string]any{}, admin.Token)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestAdminSkillModeration(t *testing.T) {
	tc := newTestClient(t)
	admin := createAdmin(t, tc, "root")
	member := createMember(t, tc, "member")

	skill, err := member.AddSkill("Juggling", model.SkillOffered)
	if err != nil {
		t.Fatalf("add skill: %v", err)
	}
	if _, err := admin.ModerateSkill(skill.ID, "delete"); client.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("expected invalid action to 400, got %v", err)
	}
	rejected, err := admin.ModerateSkill(skill.ID, "reject")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Approved {
		t.Fatalf("expected skill to be rejected")
	}
	browse, err := member.BrowseSkills("", "", 0)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(browse) != 0 {
		t.Fatalf("expected rejected skill to be hidden, got %+v", browse)
	}
	own, err := member.AccountSkills(member.AccountID)
	if err != nil {
		t.Fatalf("own skills: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("expected owner to still see rejected skill")
	}

	if _, err := admin.ModerateSkill(99999, "approve"); client.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected missing skill to 404, got %v", err)
	}

	entries, err := admin.AuditLog(model.TargetSkill, 0, 0)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != model.ActionRejectSkill || entries[0].Detail != "Juggling" {
		t.Fatalf("unexpected audit %+v", entries)
	}
}

func TestAdminBroadcastAndReport(t *testing.T) {
	tc := newTestClient(t)
	admin := createAdmin(t, tc, "root")
	alice := createMember(t, tc, "alice")
	bob := createMember(t, tc, "bob")

	if _, err := admin.Broadcast("  ", "body", ""); client.StatusCode(err) != http.StatusBadRequest {
		t.Fatalf("expected blank title to 400, got %v", err)
	}
	msg, err := admin.Broadcast("Maintenance", "Down at 2am", model.MessageMaintenance)
	if err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	if msg.CreatedBy != admin.AccountID {
		t.Fatalf("unexpected author %d", msg.CreatedBy)
	}
	messages, err := alice.Messages(10)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 1 || messages[0].Title != "Maintenance" {
		t.Fatalf("unexpected messages %+v", messages)
	}

	if _, err := alice.AddSkill("Go", model.SkillOffered); err != nil {
		t.Fatalf("add skill: %v", err)
	}
	swap, err := alice.RequestSwap(bob.AccountID, "Go", "Cooking", "")
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if _, err := bob.AnswerSwap(swap.ID, model.SwapCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := bob.Rate(swap.ID, 4, ""); err != nil {
		t.Fatalf("rate: %v", err)
	}

	report, err := admin.Report()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.ActiveAccounts != 3 {
		t.Fatalf("expected 3 active accounts, got %d", report.ActiveAccounts)
	}
	if report.Ratings.Total != 1 || report.Ratings.Average != 4 {
		t.Fatalf("unexpected ratings %+v", report.Ratings)
	}
	if len(report.Swaps) != 1 || report.Swaps[0].Status != model.SwapCompleted {
		t.Fatalf("unexpected swap counts %+v", report.Swaps)
	}

	swaps, err := admin.AdminSwaps()
	if err != nil {
		t.Fatalf("admin swaps: %v", err)
	}
	if len(swaps) != 1 || swaps[0].SenderName != "alice" {
		t.Fatalf("unexpected admin swaps %+v", swaps)
	}

	users, err := admin.AdminUsers()
	if err != nil {
		t.Fatalf("admin users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}

	resp := tc.do(t, http.MethodGet, "/api/admin/logs?target_type=story", nil, admin.Token)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestRateLimiting(t *testing.T) {
	tc := newTestClientWithConfig(t, config.Config{RateLimits: config.RateLimits{AuthPerMinute: 2}})

	for i := 0; i < 2; i++ {
		resp := tc.do(t, http.MethodPost, "/api/auth/challenge", map[string]string{"alg": "ed25519"}, "")
		expectStatus(t, resp, http.StatusOK)
		resp.Body.Close()
	}
	resp := tc.do(t, http.MethodPost, "/api/auth/challenge", map[string]string{"alg": "ed25519"}, "")
	expectStatus(t, resp, http.StatusTooManyRequests)
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	resp.Body.Close()
}

func TestPrivateAccountHidden(t *testing.T) {
	tc := newTestClient(t)
	member := createMember(t, tc, "member")

	ctx := context.Background()
	account := model.Account{DisplayName: "hermit", Public: false, CreatedAt: time.Now()}
	key := model.AccountKey{Alg: "ed25519", PublicKey: "pk-hermit", CreatedAt: time.Now()}
	id, _, err := tc.store.CreateAccount(ctx, &account, &key)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if _, err := member.GetAccount(id); client.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected private account to 404, got %v", err)
	}
}
