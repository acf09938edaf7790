// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/lvldb"
	"github.com/vechain/incentive/state"
	"github.com/vechain/incentive/test/datagen"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var (
	tokenAddr = thor.BytesToAddress([]byte("RewardToken"))
	owner     = thor.BytesToAddress([]byte("owner"))
	manager   = thor.BytesToAddress([]byte("staking-manager"))
	user1     = thor.BytesToAddress([]byte("user1"))
	user2     = thor.BytesToAddress([]byte("user2"))
)

func newToken(t *testing.T) (*Token, *xenv.Environment) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), nil, nil)
	tok := New(tokenAddr, env)
	require.NoError(t, tok.Initialize(owner, "Reward Token", "RWT", thor.InitialTokenSupply))
	require.NoError(t, tok.SetAuthorizedMinter(owner, manager))
	return tok, env
}

func balance(t *testing.T, tok *Token, addr thor.Address) *uint256.Int {
	bal, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

func assertSupplyMatchesBalances(t *testing.T, tok *Token, holders ...thor.Address) {
	sum := new(uint256.Int)
	for _, h := range holders {
		sum.Add(sum, balance(t, tok, h))
	}
	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, supply, sum)
	assert.False(t, supply.Gt(tok.MaxSupply()))
}

func TestInitialState(t *testing.T) {
	tok, _ := newToken(t)

	name, err := tok.Name()
	require.NoError(t, err)
	symbol, err := tok.Symbol()
	require.NoError(t, err)
	assert.Equal(t, "Reward Token", name)
	assert.Equal(t, "RWT", symbol)
	assert.Equal(t, uint8(18), tok.Decimals())
	assert.Equal(t, "1.0.0", tok.Version())
	assert.Equal(t, thor.MaxTokenSupply, tok.MaxSupply())
	assert.Equal(t, thor.InitialTokenSupply, balance(t, tok, owner))

	paused, err := tok.Paused()
	require.NoError(t, err)
	assert.False(t, paused)

	err = tok.Initialize(user1, "Other", "OTH", thor.Tokens(1))
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)
	assertSupplyMatchesBalances(t, tok, owner)
}

func TestMint(t *testing.T) {
	tok, _ := newToken(t)

	require.NoError(t, tok.Mint(manager, user1, thor.Tokens(1)))
	assert.Equal(t, thor.Tokens(1), balance(t, tok, user1))

	err := tok.Mint(user1, user1, thor.Tokens(1))
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	assert.EqualError(t, err, "Not Authorized")

	assert.ErrorIs(t, tok.Mint(manager, user1, new(uint256.Int)), reverts.ErrInvalidAmount)
	assert.ErrorIs(t, tok.Mint(manager, thor.Address{}, thor.Tokens(1)), reverts.ErrInvalidAddress)

	assertSupplyMatchesBalances(t, tok, owner, user1)
}

func TestMintCap(t *testing.T) {
	tok, _ := newToken(t)

	err := tok.Mint(manager, user1, thor.Tokens(9_000_001))
	require.ErrorIs(t, err, reverts.ErrExceedsSupplyCap)
	var revert *reverts.Error
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, thor.Tokens(9_000_000), revert.Available)
	assert.Contains(t, err.Error(), "Exceeds max supply")

	// exactly reaching the cap is fine
	require.NoError(t, tok.Mint(manager, user1, thor.Tokens(9_000_000)))
	supply, _ := tok.TotalSupply()
	assert.Equal(t, thor.MaxTokenSupply, supply)
	assert.ErrorIs(t, tok.Mint(manager, user1, uint256.NewInt(1)), reverts.ErrExceedsSupplyCap)

	// burning frees room under the cap again
	require.NoError(t, tok.Burn(user1, thor.Tokens(1)))
	require.NoError(t, tok.Mint(manager, user2, thor.Tokens(1)))
	assertSupplyMatchesBalances(t, tok, owner, user1, user2)
}

func TestPauseBlocksMintAndTransfers(t *testing.T) {
	tok, env := newToken(t)
	require.NoError(t, tok.Transfer(owner, user1, thor.Tokens(10)))

	assert.ErrorIs(t, tok.Pause(user1), reverts.ErrUnauthorized)
	require.NoError(t, tok.Pause(owner))

	assert.ErrorIs(t, tok.Mint(manager, user1, thor.Tokens(1)), reverts.ErrPaused)
	assert.ErrorIs(t, tok.Transfer(user1, user2, thor.Tokens(1)), reverts.ErrPaused)
	require.NoError(t, tok.Approve(user1, user2, thor.Tokens(1)))
	assert.ErrorIs(t, tok.TransferFrom(user2, user1, user2, thor.Tokens(1)), reverts.ErrPaused)

	// allowance untouched by the failed pull
	allowance, err := tok.Allowance(user1, user2)
	require.NoError(t, err)
	assert.Equal(t, thor.Tokens(1), allowance)

	// burning is not gated
	require.NoError(t, tok.Burn(user1, thor.Tokens(1)))

	require.NoError(t, tok.Unpause(owner))
	require.NoError(t, tok.Transfer(user1, user2, thor.Tokens(1)))
	assertSupplyMatchesBalances(t, tok, owner, user1, user2)

	var names []string
	for _, ev := range env.Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "Paused")
	assert.Contains(t, names, "Unpaused")
}

func TestTransfers(t *testing.T) {
	tok, _ := newToken(t)

	err := tok.Transfer(user1, user2, thor.Tokens(1))
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
	assert.ErrorIs(t, tok.Transfer(owner, thor.Address{}, thor.Tokens(1)), reverts.ErrInvalidRecipient)

	require.NoError(t, tok.Approve(owner, user1, thor.Tokens(1)))
	require.NoError(t, tok.TransferFrom(user1, owner, user2, new(uint256.Int).Div(thor.Tokens(1), uint256.NewInt(2))))
	allowance, _ := tok.Allowance(owner, user1)
	assert.Equal(t, new(uint256.Int).Div(thor.Tokens(1), uint256.NewInt(2)), allowance)

	err = tok.TransferFrom(user1, owner, user2, thor.Tokens(1))
	assert.ErrorIs(t, err, reverts.ErrInsufficientAllowance)

	// infinite allowance is not consumed
	infinite := new(uint256.Int).SetAllOne()
	require.NoError(t, tok.Approve(owner, user1, infinite))
	require.NoError(t, tok.TransferFrom(user1, owner, user2, thor.Tokens(5)))
	allowance, _ = tok.Allowance(owner, user1)
	assert.Equal(t, infinite, allowance)

	assertSupplyMatchesBalances(t, tok, owner, user1, user2)
}

func TestBurn(t *testing.T) {
	tok, _ := newToken(t)
	require.NoError(t, tok.Transfer(owner, user1, thor.Tokens(1)))

	err := tok.Burn(user1, thor.Tokens(2))
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
	assert.ErrorIs(t, tok.Burn(user1, new(uint256.Int)), reverts.ErrInvalidAmount)

	require.NoError(t, tok.Burn(user1, thor.Tokens(1)))
	assert.True(t, balance(t, tok, user1).IsZero())
	supply, _ := tok.TotalSupply()
	assert.Equal(t, new(uint256.Int).Sub(thor.InitialTokenSupply, thor.Tokens(1)), supply)
}

func TestOwnership(t *testing.T) {
	tok, _ := newToken(t)

	assert.ErrorIs(t, tok.SetAuthorizedMinter(user1, user1), reverts.ErrUnauthorized)
	require.NoError(t, tok.TransferOwnership(owner, user1))
	require.NoError(t, tok.SetAuthorizedMinter(user1, user2))

	minter, err := tok.AuthorizedMinter()
	require.NoError(t, err)
	assert.Equal(t, user2, minter)
	o, _ := tok.Owner()
	assert.Equal(t, user1, o)
}

func TestRandomFlowsConserveSupply(t *testing.T) {
	tok, _ := newToken(t)

	holders := datagen.RandAddresses(8)
	for _, h := range holders {
		require.NoError(t, tok.Mint(manager, h, datagen.RandAmount(1_000_000)))
	}
	all := append([]thor.Address{owner}, holders...)

	for range 200 {
		from := holders[datagen.RandIntN(len(holders))]
		bal := balance(t, tok, from)
		if bal.IsZero() {
			continue
		}
		amount := datagen.RandAmount(bal.Uint64())
		switch datagen.RandIntN(3) {
		case 0:
			to := holders[datagen.RandIntN(len(holders))]
			require.NoError(t, tok.Transfer(from, to, amount))
		case 1:
			require.NoError(t, tok.Burn(from, amount))
		default:
			require.NoError(t, tok.Mint(manager, from, datagen.RandAmount(1_000_000)))
		}
	}
	assertSupplyMatchesBalances(t, tok, all...)
}
