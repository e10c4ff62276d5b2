package engine

import (
	"context"
	"testing"
	"time"

	"helgykoin/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestCreateAccountStartupBonus(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	account, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)
	requireDecEqual(t, "100", account.Balance)

	// One mint-style entry credits the bonus
	entries := entriesByKind(t, e, domain.KindBonus)
	require.Len(t, entries, 1)
	require.Equal(t, domain.SystemID, entries[0].SenderID)
	require.Equal(t, uint(1), entries[0].ReceiverID)
	requireDecEqual(t, "100", entries[0].Amount)

	requireConservation(t, e)
}

func TestCreateAccountDuplicate(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = e.CreateAccount(ctx, 1, "alice again")
	require.ErrorIs(t, err, ErrAccountExists)

	// The failed attempt wrote nothing
	require.Len(t, entriesByKind(t, e, domain.KindBonus), 1)
	requireDecEqual(t, "100", accountBalance(t, e, 1))
}

func TestCreateAccountSystemIDReserved(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.CreateAccount(context.Background(), domain.SystemID, "system")
	require.ErrorIs(t, err, ErrAccountExists)
}

func TestGetAccountNotFound(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.GetAccount(context.Background(), 42, true)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGetAccountCacheInvalidatedOnWrite(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)

	// Prime the cache
	account, err := e.GetAccount(ctx, 1, true)
	require.NoError(t, err)
	requireDecEqual(t, "100", account.Balance)

	// A committed write must not leave the stale entry behind
	require.NoError(t, e.Mint(ctx, 1, dec("50")))
	account, err = e.GetAccount(ctx, 1, true)
	require.NoError(t, err)
	requireDecEqual(t, "150", account.Balance)
}

func TestTransfer(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = e.CreateAccount(ctx, 2, "bob")
	require.NoError(t, err)

	require.NoError(t, e.Transfer(ctx, 1, 2, dec("20")))

	requireDecEqual(t, "80", accountBalance(t, e, 1))
	requireDecEqual(t, "120", accountBalance(t, e, 2))

	entries := entriesByKind(t, e, domain.KindTransfer)
	require.Len(t, entries, 1)
	require.Equal(t, uint(1), entries[0].SenderID)
	require.Equal(t, uint(2), entries[0].ReceiverID)
	requireDecEqual(t, "20", entries[0].Amount)

	requireConservation(t, e)
}

func TestTransferInvalidAmount(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = e.CreateAccount(ctx, 2, "bob")
	require.NoError(t, err)

	require.ErrorIs(t, e.Transfer(ctx, 1, 2, dec("-5")), ErrInvalidAmount)
	require.ErrorIs(t, e.Transfer(ctx, 1, 2, dec("0")), ErrInvalidAmount)

	// Nothing moved, nothing logged
	requireDecEqual(t, "100", accountBalance(t, e, 1))
	requireDecEqual(t, "100", accountBalance(t, e, 2))
	require.Empty(t, entriesByKind(t, e, domain.KindTransfer))
}

func TestTransferInsufficientFunds(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = e.CreateAccount(ctx, 2, "bob")
	require.NoError(t, err)

	require.ErrorIs(t, e.Transfer(ctx, 1, 2, dec("100.00000001")), ErrInsufficientFunds)

	requireDecEqual(t, "100", accountBalance(t, e, 1))
	requireDecEqual(t, "100", accountBalance(t, e, 2))
	require.Empty(t, entriesByKind(t, e, domain.KindTransfer))
}

func TestTransferRollsBackOnMissingReceiver(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)

	// The debit succeeds inside the transaction, then the credit fails; the
	// whole unit must roll back with no lost funds
	require.ErrorIs(t, e.Transfer(ctx, 1, 99, dec("20")), ErrAccountNotFound)
	requireDecEqual(t, "100", accountBalance(t, e, 1))
	require.Empty(t, entriesByKind(t, e, domain.KindTransfer))
	requireConservation(t, e)
}

func TestSelfTransferDoesNotDoubleCount(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)

	require.NoError(t, e.Transfer(ctx, 1, 1, dec("10")))

	// Net zero: the debit and credit land on the same row
	requireDecEqual(t, "100", accountBalance(t, e, 1))
	requireConservation(t, e)
}

func TestMint(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)

	supplyBefore, err := e.GetInfo(ctx, false)
	require.NoError(t, err)

	require.NoError(t, e.Mint(ctx, 1, dec("250")))

	requireDecEqual(t, "350", accountBalance(t, e, 1))

	// Supply grew by exactly the minted amount
	supplyAfter, err := e.GetInfo(ctx, false)
	require.NoError(t, err)
	require.True(t, supplyBefore.TotalSupply.Add(dec("250")).Equal(supplyAfter.TotalSupply))

	entries := entriesByKind(t, e, domain.KindMint)
	require.Len(t, entries, 1)
	require.Equal(t, domain.SystemID, entries[0].SenderID)
	requireDecEqual(t, "250", entries[0].Amount)

	requireConservation(t, e)
}

func TestMintInvalidAmount(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)

	require.ErrorIs(t, e.Mint(ctx, 1, dec("0")), ErrInvalidAmount)
	require.ErrorIs(t, e.Mint(ctx, 1, dec("-1")), ErrInvalidAmount)
}

func TestMintUnknownAccountLeavesSupplyUntouched(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	supplyBefore, err := e.GetInfo(ctx, false)
	require.NoError(t, err)

	require.ErrorIs(t, e.Mint(ctx, 42, dec("250")), ErrAccountNotFound)

	supplyAfter, err := e.GetInfo(ctx, false)
	require.NoError(t, err)
	require.True(t, supplyBefore.TotalSupply.Equal(supplyAfter.TotalSupply))
	require.Empty(t, entriesByKind(t, e, domain.KindMint))
}

func TestSellToSystem(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)

	supplyBefore, err := e.GetInfo(ctx, false)
	require.NoError(t, err)

	proceeds, err := e.SellToSystem(ctx, 1, dec("40"))
	require.NoError(t, err)
	requireDecEqual(t, "0.002", proceeds) // 40 x 0.00005

	requireDecEqual(t, "60", accountBalance(t, e, 1))

	// The sale models off-ledger redemption: no supply change
	supplyAfter, err := e.GetInfo(ctx, false)
	require.NoError(t, err)
	require.True(t, supplyBefore.TotalSupply.Equal(supplyAfter.TotalSupply))

	entries := entriesByKind(t, e, domain.KindSell)
	require.Len(t, entries, 1)
	require.Equal(t, uint(1), entries[0].SenderID)
	require.Equal(t, domain.SystemID, entries[0].ReceiverID)

	requireConservation(t, e)
}

func TestSellToSystemInsufficientFunds(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)

	_, err = e.SellToSystem(ctx, 1, dec("101"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	requireDecEqual(t, "100", accountBalance(t, e, 1))
}

func TestGetHistoryOrderingAndPaging(t *testing.T) {
	e, clk := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = e.CreateAccount(ctx, 2, "bob")
	require.NoError(t, err)

	clk.Advance(time.Minute)
	require.NoError(t, e.Transfer(ctx, 1, 2, dec("10")))
	clk.Advance(time.Minute)
	require.NoError(t, e.Mint(ctx, 1, dec("5")))
	// Two writes at the same instant; the entry id breaks the tie
	require.NoError(t, e.Transfer(ctx, 2, 1, dec("1")))

	entries, err := e.GetHistory(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4) // bonus, transfer out, mint, transfer in

	// Newest first, same-timestamp ties resolved by descending id
	require.Equal(t, domain.KindTransfer, entries[0].Kind)
	require.Equal(t, uint(2), entries[0].SenderID)
	require.Equal(t, domain.KindMint, entries[1].Kind)
	require.Equal(t, domain.KindTransfer, entries[2].Kind)
	require.Equal(t, domain.KindBonus, entries[3].Kind)

	// Paging walks the same ordering
	page, err := e.GetHistory(ctx, 1, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, entries[1].ID, page[0].ID)
	require.Equal(t, entries[2].ID, page[1].ID)

	// Entries of other accounts stay out
	bob, err := e.GetHistory(ctx, 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, bob, 3) // bonus plus the two transfers
}

func TestConservationAcrossMixedOperations(t *testing.T) {
	e, clk := newTestEngine(t)
	ctx := context.Background()

	_, err := e.CreateAccount(ctx, 1, "alice")
	require.NoError(t, err)
	requireConservation(t, e)

	_, err = e.CreateAccount(ctx, 2, "bob")
	require.NoError(t, err)
	requireConservation(t, e)

	require.NoError(t, e.Mint(ctx, 1, dec("1000")))
	requireConservation(t, e)

	require.NoError(t, e.Transfer(ctx, 1, 2, dec("300")))
	requireConservation(t, e)

	_, err = e.OpenStake(ctx, 1, dec("500"))
	require.NoError(t, err)
	requireConservation(t, e)

	_, err = e.Buy(ctx, 2, "speed_24h_1.5x")
	require.NoError(t, err)
	requireConservation(t, e)

	clk.Advance(48 * time.Hour)
	_, err = e.ClaimAll(ctx, 1)
	require.NoError(t, err)
	requireConservation(t, e)

	_, _, err = e.CloseStake(ctx, 1, 1)
	require.NoError(t, err)
	requireConservation(t, e)

	_, err = e.SellToSystem(ctx, 2, dec("100"))
	require.NoError(t, err)
	requireConservation(t, e)
}
