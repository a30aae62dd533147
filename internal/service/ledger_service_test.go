package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"splitledger/internal/cache"
	"splitledger/internal/events"
	"splitledger/internal/ledger"
	"splitledger/internal/models"
	"splitledger/internal/storage/sqlite"
)

type fixture struct {
	store  *sqlite.SQLiteStore
	svc    *LedgerService
	groups *GroupService
	group  *models.Group
	alice  *models.User
	bob    *models.User
	carol  *models.User
}

func newFixture(t *testing.T, balances *cache.Balances) *fixture {
	t.Helper()
	ctx := context.Background()

	tempDir, err := os.MkdirTemp("", "splitledger-svc-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		store:  store,
		svc:    NewLedgerService(store, balances, events.Nop{}),
		groups: NewGroupService(store, balances),
	}

	for _, u := range []struct {
		email, name string
		dst         **models.User
	}{
		{"alice@example.com", "Alice", &f.alice},
		{"bob@example.com", "Bob", &f.bob},
		{"carol@example.com", "Carol", &f.carol},
	} {
		user := models.NewUser(u.email, u.name, "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", u.email, err)
		}
		*u.dst = user
	}

	f.group, err = f.groups.CreateGroup(ctx, f.alice.ID, "Trip")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, u := range []*models.User{f.bob, f.carol} {
		if _, err := f.groups.AddMember(ctx, f.alice.ID, f.group.ID, u.Email); err != nil {
			t.Fatalf("AddMember(%s) failed: %v", u.Email, err)
		}
	}
	return f
}

func (f *fixture) balance(t *testing.T, callerID string) *cache.BalanceView {
	t.Helper()
	view, err := f.svc.Balances(context.Background(), callerID, f.group.ID)
	if err != nil {
		t.Fatalf("Balances failed: %v", err)
	}
	return view
}

func TestExpenseThenSettlementScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// Alice pays 1000 split between Alice and Bob.
	_, err := f.svc.AddExpense(ctx, f.alice.ID, f.group.ID, "Dinner", 1000, []string{f.alice.ID, f.bob.ID})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	view := f.balance(t, f.alice.ID)
	if view.Balances[f.alice.ID] != 500 || view.Balances[f.bob.ID] != -500 {
		t.Errorf("balances = %v, want alice +500 bob -500", view.Balances)
	}
	if len(view.Transfers) != 1 {
		t.Fatalf("transfers = %v, want one", view.Transfers)
	}
	tr := view.Transfers[0]
	if tr.FromUserID != f.bob.ID || tr.ToUserID != f.alice.ID || tr.Amount != 500 {
		t.Errorf("transfer = %+v, want bob->alice 500", tr)
	}

	// Bob settles 500 to Alice: everyone back to zero.
	if _, err := f.svc.RecordSettlement(ctx, f.bob.ID, f.group.ID, f.alice.ID, 500); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	view = f.balance(t, f.bob.ID)
	for id, b := range view.Balances {
		if b != 0 {
			t.Errorf("balance[%s] = %d, want 0", id, b)
		}
	}
	if len(view.Transfers) != 0 {
		t.Errorf("transfers = %v, want none after full settlement", view.Transfers)
	}
}

func TestThreeWaySplitScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// A pays 900 split three ways: 300 each.
	_, err := f.svc.AddExpense(ctx, f.alice.ID, f.group.ID, "Taxi", 900,
		[]string{f.alice.ID, f.bob.ID, f.carol.ID})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	view := f.balance(t, f.carol.ID)
	want := map[string]int64{f.alice.ID: 600, f.bob.ID: -300, f.carol.ID: -300}
	for id, b := range want {
		if view.Balances[id] != b {
			t.Errorf("balance[%s] = %d, want %d", id, view.Balances[id], b)
		}
	}

	if len(view.Transfers) != 2 {
		t.Fatalf("transfers = %v, want two", view.Transfers)
	}
	var total int64
	for _, tr := range view.Transfers {
		if tr.ToUserID != f.alice.ID {
			t.Errorf("transfer %+v should pay alice", tr)
		}
		total += tr.Amount
	}
	if total != 600 {
		t.Errorf("transfers sum to %d, want 600", total)
	}
}

func TestDeleteExpenseAfterSettlement(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	expense, err := f.svc.AddExpense(ctx, f.alice.ID, f.group.ID, "Dinner", 1000,
		[]string{f.alice.ID, f.bob.ID})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if _, err := f.svc.RecordSettlement(ctx, f.bob.ID, f.group.ID, f.alice.ID, 500); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	// Deleting the expense does not undo the settlement: balances are
	// recomputed from the remaining ledger and the settlement stands.
	if err := f.svc.DeleteExpense(ctx, f.alice.ID, expense.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}

	view := f.balance(t, f.alice.ID)
	if view.Balances[f.alice.ID] != -500 || view.Balances[f.bob.ID] != 500 {
		t.Errorf("balances = %v, want alice -500 bob +500", view.Balances)
	}
	var sum int64
	for _, b := range view.Balances {
		sum += b
	}
	if sum != 0 {
		t.Errorf("balances sum to %d after deletion, want 0", sum)
	}
}

func TestDeleteExpensePayerOnly(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	expense, err := f.svc.AddExpense(ctx, f.alice.ID, f.group.ID, "Dinner", 1000,
		[]string{f.alice.ID, f.bob.ID})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if err := f.svc.DeleteExpense(ctx, f.bob.ID, expense.ID); !errors.Is(err, ledger.ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-payer delete, got %v", err)
	}
	if err := f.svc.DeleteExpense(ctx, f.alice.ID, "missing"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordSettlementValidationOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		caller  string
		to      string
		amount  int64
		wantErr error
	}{
		{"zero amount", f.alice.ID, f.bob.ID, 0, ledger.ErrInvalidAmount},
		{"negative amount", f.alice.ID, f.bob.ID, -100, ledger.ErrInvalidAmount},
		// Amount is checked before membership: a stranger sending a
		// bad amount still sees the amount error first.
		{"bad amount from stranger", "stranger", f.bob.ID, -1, ledger.ErrInvalidAmount},
		{"caller not a member", "stranger", f.bob.ID, 100, ledger.ErrNotAMember},
		{"recipient not a member", f.alice.ID, "stranger", 100, ledger.ErrNotAMember},
		{"self transfer", f.alice.ID, f.alice.ID, 100, ledger.ErrInvalidSettlement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordSettlement(ctx, tt.caller, f.group.ID, tt.to, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("unknown group", func(t *testing.T) {
		_, err := f.svc.RecordSettlement(ctx, f.alice.ID, "missing-group", f.bob.ID, 100)
		if !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("overpayment accepted", func(t *testing.T) {
		if _, err := f.svc.RecordSettlement(ctx, f.alice.ID, f.group.ID, f.bob.ID, 999999); err != nil {
			t.Errorf("overpayment should be accepted, got %v", err)
		}
	})
}

func TestAddExpenseValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.AddExpense(ctx, f.alice.ID, f.group.ID, "x", 0, []string{f.alice.ID}); !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if _, err := f.svc.AddExpense(ctx, f.alice.ID, f.group.ID, "x", 100, nil); !errors.Is(err, ledger.ErrInvalidExpense) {
		t.Errorf("no participants: got %v, want ErrInvalidExpense", err)
	}
	if _, err := f.svc.AddExpense(ctx, "stranger", f.group.ID, "x", 100, []string{f.alice.ID}); !errors.Is(err, ledger.ErrNotAMember) {
		t.Errorf("stranger payer: got %v, want ErrNotAMember", err)
	}
	if _, err := f.svc.AddExpense(ctx, f.alice.ID, f.group.ID, "x", 100, []string{"stranger"}); !errors.Is(err, ledger.ErrNotAMember) {
		t.Errorf("stranger participant: got %v, want ErrNotAMember", err)
	}
}

// Cached and uncached services must agree on every query after every
// kind of write. The cache is keyed by ledger version, so a write that
// raced an invalidation still cannot produce a stale read.
func TestCachedBalancesMatchFresh(t *testing.T) {
	cached := newFixture(t, cache.NewBalances(16, time.Minute))
	fresh := newFixture(t, nil)
	ctx := context.Background()

	type step func(f *fixture) error
	steps := []step{
		func(f *fixture) error {
			_, err := f.svc.AddExpense(ctx, f.alice.ID, f.group.ID, "Dinner", 1001, []string{f.alice.ID, f.bob.ID, f.carol.ID})
			return err
		},
		func(f *fixture) error {
			_, err := f.svc.RecordSettlement(ctx, f.bob.ID, f.group.ID, f.alice.ID, 200)
			return err
		},
		func(f *fixture) error {
			_, err := f.svc.AddExpense(ctx, f.bob.ID, f.group.ID, "Fuel", 333, []string{f.alice.ID, f.bob.ID})
			return err
		},
		func(f *fixture) error {
			_, err := f.svc.RecordSettlement(ctx, f.carol.ID, f.group.ID, f.alice.ID, 334)
			return err
		},
	}

	for i, apply := range steps {
		for _, f := range []*fixture{cached, fresh} {
			if err := apply(f); err != nil {
				t.Fatalf("step %d failed: %v", i, err)
			}
		}

		// Query twice so the cached fixture serves its second answer
		// from cache.
		cachedView := cached.balance(t, cached.alice.ID)
		cachedView = cached.balance(t, cached.alice.ID)
		freshView := fresh.balance(t, fresh.alice.ID)

		if len(cachedView.Balances) != len(freshView.Balances) {
			t.Fatalf("step %d: balance sets differ: %v vs %v", i, cachedView.Balances, freshView.Balances)
		}
		// User IDs differ across fixtures; compare by role.
		pairs := []struct{ a, b string }{
			{cached.alice.ID, fresh.alice.ID},
			{cached.bob.ID, fresh.bob.ID},
			{cached.carol.ID, fresh.carol.ID},
		}
		for _, p := range pairs {
			if cachedView.Balances[p.a] != freshView.Balances[p.b] {
				t.Errorf("step %d: cached balance %d != fresh %d", i, cachedView.Balances[p.a], freshView.Balances[p.b])
			}
		}
		if len(cachedView.Transfers) != len(freshView.Transfers) {
			t.Errorf("step %d: transfer counts differ: %v vs %v", i, cachedView.Transfers, freshView.Transfers)
		}
	}
}

func TestBalancesEmptyLedger(t *testing.T) {
	f := newFixture(t, nil)

	view := f.balance(t, f.alice.ID)
	if len(view.Balances) != 3 {
		t.Fatalf("balances = %v, want all three members", view.Balances)
	}
	for id, b := range view.Balances {
		if b != 0 {
			t.Errorf("balance[%s] = %d, want 0", id, b)
		}
	}
	if len(view.Transfers) != 0 {
		t.Errorf("transfers = %v, want none", view.Transfers)
	}
}

func TestBalancesRequiresMembership(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Balances(ctx, "stranger", f.group.ID); !errors.Is(err, ledger.ErrNotAMember) {
		t.Errorf("got %v, want ErrNotAMember", err)
	}
	if _, err := f.svc.Balances(ctx, f.alice.ID, "missing-group"); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
