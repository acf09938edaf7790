// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/incentive/builtin/collection"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/builtin/token"
	"github.com/vechain/incentive/lvldb"
	"github.com/vechain/incentive/state"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var (
	stakingAddr    = thor.BytesToAddress([]byte("StakingManager"))
	tokenAddr      = thor.BytesToAddress([]byte("RewardToken"))
	collectionAddr = thor.BytesToAddress([]byte("MyNFT"))
	owner          = thor.BytesToAddress([]byte("owner"))
	user1          = thor.BytesToAddress([]byte("user1"))
	user2          = thor.BytesToAddress([]byte("user2"))
)

type testResolver struct {
	coll *collection.Collection
	tok  *token.Token
}

func (r *testResolver) AssetRegistry(addr thor.Address) (AssetRegistry, error) {
	if addr != r.coll.Address() {
		return nil, reverts.New(reverts.KindUnknownContract, "unknown registry")
	}
	return r.coll, nil
}

func (r *testResolver) RewardMinter(addr thor.Address) (RewardMinter, error) {
	if addr != r.tok.Address() {
		return nil, reverts.New(reverts.KindUnknownContract, "unknown minter")
	}
	return r.tok, nil
}

type fixture struct {
	env  *xenv.Environment
	stk  *Staking
	coll *collection.Collection
	tok  *token.Token
}

func (f *fixture) setTime(ts uint64) { f.env.BlockContext().Time = ts }

func ids(ns ...uint64) []*uint256.Int {
	out := make([]*uint256.Int, 0, len(ns))
	for _, n := range ns {
		out = append(out, uint256.NewInt(n))
	}
	return out
}

// newFixture wires a registry at one unit per asset per second. user1 holds
// ids 1 and 2, user2 holds id 3, both approved the registry.
func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), &xenv.BlockContext{Time: 100}, nil)
	tok := token.New(tokenAddr, env)
	coll := collection.New(collectionAddr, env, nil)
	stk := New(stakingAddr, env, &testResolver{coll: coll, tok: tok})

	require.NoError(t, tok.Initialize(owner, "Reward Token", "RWT", thor.InitialTokenSupply))
	require.NoError(t, coll.Initialize(owner, "MyNFT", "MNFT", thor.Address{}))
	require.NoError(t, stk.Initialize(owner, collectionAddr, tokenAddr, uint256.NewInt(1)))
	require.NoError(t, tok.SetAuthorizedMinter(owner, stakingAddr))

	for _, to := range []thor.Address{user1, user1, user2} {
		_, err := coll.Mint(owner, to, "")
		require.NoError(t, err)
	}
	require.NoError(t, coll.SetApprovalForAll(user1, stakingAddr, true))
	require.NoError(t, coll.SetApprovalForAll(user2, stakingAddr, true))

	return &fixture{env: env, stk: stk, coll: coll, tok: tok}
}

func (f *fixture) assertStakedCount(t *testing.T, users ...thor.Address) {
	var sum uint64
	for _, u := range users {
		info, err := f.stk.GetUserStakeInfo(u)
		require.NoError(t, err)
		sum += uint64(len(info.StakedIDs))
	}
	total, err := f.stk.TotalStaked()
	require.NoError(t, err)
	assert.Equal(t, sum, total.Uint64())
}

func TestInitialState(t *testing.T) {
	f := newFixture(t)

	coll, _ := f.stk.NFTCollection()
	tok, _ := f.stk.RewardToken()
	rate, _ := f.stk.RewardRate()
	o, _ := f.stk.Owner()
	paused, _ := f.stk.Paused()
	assert.Equal(t, collectionAddr, coll)
	assert.Equal(t, tokenAddr, tok)
	assert.Equal(t, uint64(1), rate.Uint64())
	assert.Equal(t, owner, o)
	assert.False(t, paused)
	assert.Equal(t, "1.0.0", f.stk.Version())

	err := f.stk.Initialize(user1, collectionAddr, tokenAddr, uint256.NewInt(5))
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)
}

func TestStakeAndClaim(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.stk.Stake(user1, ids(1, 2)))
	for _, id := range ids(1, 2) {
		holder, err := f.coll.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, stakingAddr, holder)
	}

	f.setTime(110)
	pending, err := f.stk.CalculateRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), pending.Uint64())

	claimed, err := f.stk.ClaimRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), claimed.Uint64())
	bal, _ := f.tok.BalanceOf(user1)
	assert.Equal(t, uint64(20), bal.Uint64())

	// nothing left right after a claim
	pending, err = f.stk.CalculateRewards(user1)
	require.NoError(t, err)
	assert.True(t, pending.IsZero())
	_, err = f.stk.ClaimRewards(user1)
	assert.ErrorIs(t, err, reverts.ErrNoRewardsAvailable)

	f.assertStakedCount(t, user1, user2)
}

func TestStakeRejects(t *testing.T) {
	f := newFixture(t)

	err := f.stk.Stake(user1, nil)
	assert.ErrorIs(t, err, reverts.ErrInvalidAmount)
	assert.ErrorIs(t, f.stk.Stake(user1, ids(1, 1)), reverts.ErrInvalidAmount)

	// not the owner of id 3
	assert.ErrorIs(t, f.stk.Stake(user1, ids(1, 3)), reverts.ErrUnauthorized)
	// registry not approved
	require.NoError(t, f.coll.SetApprovalForAll(user1, stakingAddr, false))
	assert.ErrorIs(t, f.stk.Stake(user1, ids(1)), reverts.ErrUnauthorized)
	// unknown asset
	require.NoError(t, f.coll.SetApprovalForAll(user1, stakingAddr, true))
	assert.ErrorIs(t, f.stk.Stake(user1, ids(42)), reverts.ErrNonexistentToken)

	// nothing leaked from the failed calls
	info, err := f.stk.GetUserStakeInfo(user1)
	require.NoError(t, err)
	assert.Empty(t, info.StakedIDs)
	holder, _ := f.coll.OwnerOf(uint256.NewInt(1))
	assert.Equal(t, user1, holder)
	f.assertStakedCount(t, user1, user2)
}

func TestPause(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.stk.Stake(user2, ids(3)))

	assert.ErrorIs(t, f.stk.SetPaused(user1, true), reverts.ErrUnauthorized)
	require.NoError(t, f.stk.SetPaused(owner, true))
	paused, _ := f.stk.Paused()
	assert.True(t, paused)

	err := f.stk.Stake(user1, ids(1))
	assert.ErrorIs(t, err, reverts.ErrPaused)
	assert.EqualError(t, err, "Contract is paused")

	// withdraw paths stay open and still settle
	f.setTime(105)
	require.NoError(t, f.stk.EmergencyUnstake(user2, ids(3)))
	info, err := f.stk.GetUserStakeInfo(user2)
	require.NoError(t, err)
	assert.Empty(t, info.StakedIDs)
	assert.Equal(t, uint64(5), info.Claimable.Uint64())
	holder, _ := f.coll.OwnerOf(uint256.NewInt(3))
	assert.Equal(t, user2, holder)

	require.NoError(t, f.stk.SetPaused(owner, false))
	require.NoError(t, f.stk.Stake(user1, ids(1)))
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.stk.Stake(user1, ids(1, 2)))

	assert.ErrorIs(t, f.stk.Withdraw(user1, nil), reverts.ErrInvalidAmount)
	err := f.stk.Withdraw(user2, ids(1))
	assert.ErrorIs(t, err, reverts.ErrTokenNotStaked)
	assert.EqualError(t, err, "Token not staked")
	assert.ErrorIs(t, f.stk.Withdraw(user1, ids(3)), reverts.ErrTokenNotStaked)

	f.setTime(110)
	require.NoError(t, f.stk.Withdraw(user1, ids(1, 2)))
	info, err := f.stk.GetUserStakeInfo(user1)
	require.NoError(t, err)
	assert.Empty(t, info.StakedIDs)
	for _, id := range ids(1, 2) {
		holder, _ := f.coll.OwnerOf(id)
		assert.Equal(t, user1, holder)
		staker, _ := f.stk.StakerOf(id)
		assert.True(t, staker.IsZero())
	}

	// reward survives the withdrawal and stops growing
	f.setTime(200)
	claimed, err := f.stk.ClaimRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), claimed.Uint64())
	f.assertStakedCount(t, user1, user2)
}

func TestWithdrawKeepsOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.coll.Mint(owner, user1, "")
	require.NoError(t, err)

	require.NoError(t, f.stk.Stake(user1, ids(1, 2, 4)))
	require.NoError(t, f.stk.Withdraw(user1, ids(2)))

	info, err := f.stk.GetUserStakeInfo(user1)
	require.NoError(t, err)
	assert.Equal(t, ids(1, 4), info.StakedIDs)
}

func TestRoundTrip(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.stk.Stake(user1, ids(1)))
	f.setTime(130)
	require.NoError(t, f.stk.Stake(user1, ids(2)))

	before, err := f.stk.GetUserStakeInfo(user1)
	require.NoError(t, err)
	require.NoError(t, f.stk.Withdraw(user1, ids(2)))
	after, err := f.stk.GetUserStakeInfo(user1)
	require.NoError(t, err)

	assert.Equal(t, ids(1), after.StakedIDs)
	assert.Equal(t, before.Claimable, after.Claimable)
	assert.Equal(t, uint64(30), after.Claimable.Uint64())
	holder, _ := f.coll.OwnerOf(uint256.NewInt(2))
	assert.Equal(t, user1, holder)
}

func TestSettlementAcrossCountChanges(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.stk.Stake(user1, ids(1)))
	f.setTime(110) // 1 asset x 10s
	require.NoError(t, f.stk.Stake(user1, ids(2)))
	f.setTime(115) // 2 assets x 5s
	require.NoError(t, f.stk.Withdraw(user1, ids(1)))
	f.setTime(125) // 1 asset x 10s

	pending, err := f.stk.CalculateRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10+10+10), pending.Uint64())

	// views are repeatable
	again, err := f.stk.CalculateRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, pending, again)
}

func TestRewardRateIsRetroactive(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.stk.Stake(user1, ids(1, 2)))
	f.setTime(110)

	assert.ErrorIs(t, f.stk.SetRewardRate(user1, uint256.NewInt(3)), reverts.ErrUnauthorized)
	require.NoError(t, f.stk.SetRewardRate(owner, uint256.NewInt(3)))

	pending, err := f.stk.CalculateRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2*3*10), pending.Uint64())
}

func TestEmergencyUnstakeSurvivesOverflow(t *testing.T) {
	f := newFixture(t)
	maxU := new(uint256.Int).SetAllOne()
	require.NoError(t, f.stk.Stake(user1, ids(1, 2)))
	require.NoError(t, f.stk.SetRewardRate(owner, new(uint256.Int).Lsh(uint256.NewInt(1), 255)))
	f.setTime(110)

	// views saturate instead of failing
	pending, err := f.stk.CalculateRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, maxU, pending)

	// the strict paths still refuse
	assert.ErrorIs(t, f.stk.Withdraw(user1, ids(1)), reverts.ErrArithmeticOverflow)
	_, err = f.stk.ClaimRewards(user1)
	assert.ErrorIs(t, err, reverts.ErrArithmeticOverflow)

	require.NoError(t, f.stk.EmergencyUnstake(user1, ids(1, 2)))
	for _, id := range ids(1, 2) {
		holder, err := f.coll.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, user1, holder)
		staker, _ := f.stk.StakerOf(id)
		assert.True(t, staker.IsZero())
	}
	info, err := f.stk.GetUserStakeInfo(user1)
	require.NoError(t, err)
	assert.Empty(t, info.StakedIDs)
	assert.Equal(t, uint64(110), info.LastAccrualTime)
	assert.Equal(t, maxU, info.Claimable)
	f.assertStakedCount(t, user1, user2)

	// nothing staked, so nothing grows past the clamp
	f.setTime(500)
	pending, err = f.stk.CalculateRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, maxU, pending)
}

func TestClaimFailsAtomically(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.stk.Stake(user1, ids(1)))
	f.setTime(110)

	// token paused, mint fails, the claim leaves no trace
	require.NoError(t, f.tok.Pause(owner))
	_, err := f.stk.ClaimRewards(user1)
	assert.ErrorIs(t, err, reverts.ErrPaused)

	info, err := f.stk.GetUserStakeInfo(user1)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), info.LastAccrualTime)
	assert.Equal(t, uint64(10), info.Claimable.Uint64())

	// minter revoked
	require.NoError(t, f.tok.Unpause(owner))
	require.NoError(t, f.tok.SetAuthorizedMinter(owner, owner))
	_, err = f.stk.ClaimRewards(user1)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	require.NoError(t, f.tok.SetAuthorizedMinter(owner, stakingAddr))
	claimed, err := f.stk.ClaimRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), claimed.Uint64())
}

func TestClaimExceedingCap(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.stk.SetRewardRate(owner, thor.Tokens(1_000_000)))
	require.NoError(t, f.stk.Stake(user1, ids(1)))
	f.setTime(110)

	_, err := f.stk.ClaimRewards(user1)
	assert.ErrorIs(t, err, reverts.ErrExceedsSupplyCap)
	pending, err := f.stk.CalculateRewards(user1)
	require.NoError(t, err)
	assert.Equal(t, thor.Tokens(10_000_000), pending)
}

func TestAdminSetters(t *testing.T) {
	f := newFixture(t)
	other := thor.BytesToAddress([]byte("other"))

	assert.ErrorIs(t, f.stk.SetNFTCollection(user1, other), reverts.ErrUnauthorized)
	assert.ErrorIs(t, f.stk.SetRewardToken(owner, thor.Address{}), reverts.ErrInvalidAddress)
	require.NoError(t, f.stk.SetRewardToken(owner, other))
	got, _ := f.stk.RewardToken()
	assert.Equal(t, other, got)

	// the collection is fixed while anything is staked
	require.NoError(t, f.stk.Stake(user1, ids(1)))
	assert.ErrorIs(t, f.stk.SetNFTCollection(user1, other), reverts.ErrUnauthorized)
	err := f.stk.SetNFTCollection(owner, other)
	assert.ErrorIs(t, err, reverts.ErrInvalidAddress)
	assert.EqualError(t, err, "Collection has staked tokens")
	coll, _ := f.stk.NFTCollection()
	assert.Equal(t, collectionAddr, coll)

	// unknown reward token surfaces on claim
	f.setTime(101)
	_, err = f.stk.ClaimRewards(user1)
	assert.ErrorIs(t, err, reverts.ErrUnknownContract)

	require.NoError(t, f.stk.EmergencyUnstake(user1, ids(1)))
	require.NoError(t, f.stk.SetNFTCollection(owner, other))
	coll, _ = f.stk.NFTCollection()
	assert.Equal(t, other, coll)
}
