package finance

import (
	"testing"

	"finboard/internal/models"
)

func account(id string, typ models.AccountType, balance string) models.Account {
	a := models.Account{Name: "acct-" + id, Type: typ, Balance: d(balance)}
	a.ID = id
	return a
}

func TestNetWorth(t *testing.T) {
	accounts := []models.Account{
		account("1", models.AccountTypeChecking, "1500.50"),
		account("2", models.AccountTypeSavings, "10000"),
		account("3", models.AccountTypeCredit, "2500.25"),
		account("4", models.AccountTypeLoan, "5000"),
		account("5", models.AccountType("crypto-wallet"), "99999"),
	}

	t.Run("assets_minus_liabilities", func(t *testing.T) {
		assertDecimal(t, "net worth", NetWorth(accounts), "4000.25")
	})

	t.Run("total_balance_counts_assets_only", func(t *testing.T) {
		assertDecimal(t, "total balance", TotalBalance(accounts), "11500.50")
	})

	t.Run("unclassified_contributes_zero", func(t *testing.T) {
		only := []models.Account{account("x", models.AccountType("mystery"), "123")}
		assertDecimal(t, "net worth", NetWorth(only), "0")
		assertDecimal(t, "total balance", TotalBalance(only), "0")
	})

	t.Run("empty", func(t *testing.T) {
		assertDecimal(t, "net worth", NetWorth(nil), "0")
	})
}

func TestClassOf(t *testing.T) {
	for _, typ := range models.AccountTypes {
		if ClassOf(typ) == ClassUnclassified {
			t.Errorf("expected %s to be classified", typ)
		}
	}
	if ClassOf("other") != ClassUnclassified {
		t.Error("expected unknown type to be unclassified")
	}
}

func TestSummarizeAccounts(t *testing.T) {
	accounts := []models.Account{
		account("1", models.AccountTypeSavings, "200"),
		account("2", models.AccountTypeChecking, "100"),
		account("3", models.AccountTypeChecking, "50"),
		account("4", models.AccountTypeDebt, "30"),
	}
	s := SummarizeAccounts(accounts)

	assertDecimal(t, "assets", s.TotalAssets, "350")
	assertDecimal(t, "liabilities", s.TotalLiabilities, "30")
	assertDecimal(t, "net worth", s.NetWorth, "320")

	if len(s.ByType) != 3 {
		t.Fatalf("expected 3 type groups, got %d", len(s.ByType))
	}
	if s.ByType[0].Type != models.AccountTypeChecking || s.ByType[0].Count != 2 {
		t.Errorf("expected checking first with 2 accounts, got %s/%d", s.ByType[0].Type, s.ByType[0].Count)
	}
	assertDecimal(t, "checking", s.ByType[0].Balance, "150")
}

func TestAccountName(t *testing.T) {
	accounts := []models.Account{account("a1", models.AccountTypeCash, "0")}
	if got := AccountName(accounts, "a1"); got != "acct-a1" {
		t.Errorf("expected acct-a1, got %s", got)
	}
	if got := AccountName(accounts, "missing"); got != UnknownAccount {
		t.Errorf("expected %q, got %q", UnknownAccount, got)
	}
}
