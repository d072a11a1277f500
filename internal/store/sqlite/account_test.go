package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"
)

func TestAccountKeys(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	account := model.Account{DisplayName: "Bot", Email: "bot@example.com", CreatedAt: time.Now()}
	key := model.AccountKey{Alg: "ed25519", PublicKey: "pubkey", CreatedAt: time.Now()}

	accountID, keyID, err := st.CreateAccount(context.Background(), &account, &key)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if accountID == 0 || keyID == 0 {
		t.Fatalf("expected ids")
	}

	k, acc, err := st.FindAccountKey(context.Background(), "ed25519", "pubkey")
	if err != nil {
		t.Fatalf("find key: %v", err)
	}
	if acc == nil || acc.ID != accountID {
		t.Fatalf("expected account")
	}
	if k.ID != keyID {
		t.Fatalf("expected key id")
	}
	if acc.Role != model.RoleUser {
		t.Fatalf("expected default role user, got %s", acc.Role)
	}

	other := model.Account{DisplayName: "Other", CreatedAt: time.Now()}
	_, _, err = st.CreateAccount(context.Background(), &other, &model.AccountKey{Alg: "ed25519", PublicKey: "pubkey", CreatedAt: time.Now()})
	if err != store.ErrDuplicateKey {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}

	dup := model.Account{DisplayName: "Bot", CreatedAt: time.Now()}
	_, _, err = st.CreateAccount(context.Background(), &dup, &model.AccountKey{Alg: "ed25519", PublicKey: "another", CreatedAt: time.Now()})
	if err != store.ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestAccountRoles(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	id := mustAccount(t, st, "root")
	if err := st.SetAccountRole(ctx, id, model.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	role, err := st.GetAccountRole(ctx, id)
	if err != nil {
		t.Fatalf("get role: %v", err)
	}
	if role != model.RoleAdmin {
		t.Fatalf("expected admin, got %s", role)
	}
	if _, err := st.GetAccountRole(ctx, 4242); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.SetAccountRole(ctx, id, "owner"); err == nil {
		t.Fatalf("expected invalid role error")
	}
}

func TestListAccountsNewestFirst(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()
	ctx := context.Background()

	first := mustAccount(t, st, "first")
	second := mustAccount(t, st, "second")

	accounts, err := st.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].ID != second || accounts[1].ID != first {
		t.Fatalf("expected newest first, got %d then %d", accounts[0].ID, accounts[1].ID)
	}
}
