// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/incentive/builtin"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/genesis"
	"github.com/vechain/incentive/lvldb"
	"github.com/vechain/incentive/runtime"
	"github.com/vechain/incentive/thor"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newRuntime(t *testing.T) (*runtime.Runtime, *fakeClock, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = genesis.NewDevnet().Build(db)
	require.NoError(t, err)

	clock := &fakeClock{time.Unix(1526400000, 0)}
	rt, err := runtime.New(db, runtime.Options{Clock: clock.Now})
	require.NoError(t, err)
	return rt, clock, db
}

func args(v map[string]any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func TestCallCommits(t *testing.T) {
	rt, _, db := newRuntime(t)
	accs := genesis.DevAccounts()

	out, err := rt.Call("token", "transfer", accs[1].Address, args(map[string]any{
		"to":     accs[2].Address.String(),
		"amount": "1000",
	}))
	require.NoError(t, err)
	assert.False(t, out.Reverted)
	assert.NoError(t, out.Err())
	assert.Equal(t, uint32(1), out.Number)
	assert.False(t, out.Digest.IsZero())
	require.Len(t, out.Events, 1)
	assert.Equal(t, "Transfer", out.Events[0].Name)

	// a new runtime over the same store sees the committed call
	rt2, err := runtime.New(db, runtime.Options{})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), rt2.Head().Number)

	read, err := rt2.Read("token", "balanceOf", thor.Address{}, args(map[string]any{
		"owner": accs[2].Address.String(),
	}))
	require.NoError(t, err)
	want := new(uint256.Int).Add(thor.Tokens(10_000), uint256.NewInt(1000))
	assert.Equal(t, want, read.Data)
}

func TestRevertedCallLeavesNoTrace(t *testing.T) {
	rt, _, _ := newRuntime(t)
	accs := genesis.DevAccounts()

	before, err := rt.Read("vault", "getBalance", thor.Address{}, nil)
	require.NoError(t, err)

	out, err := rt.Call("vault", "sendReward", accs[1].Address, args(map[string]any{
		"to":     accs[1].Address.String(),
		"amount": "1",
	}))
	require.NoError(t, err)
	assert.True(t, out.Reverted)
	assert.ErrorIs(t, out.Err(), reverts.ErrUnauthorized)
	require.NotNil(t, out.Revert)
	assert.Equal(t, "Unauthorized", out.Revert.Kind)
	assert.Equal(t, "Ownable: caller is not the owner", out.Revert.Message)
	assert.Contains(t, out.Revert.Data, "0x08c379a0")
	assert.Empty(t, out.Events)
	assert.Equal(t, uint32(0), rt.Head().Number)

	after, err := rt.Read("vault", "getBalance", thor.Address{}, nil)
	require.NoError(t, err)
	assert.Equal(t, before.Data, after.Data)
}

func TestUnknownAndBadCalls(t *testing.T) {
	rt, _, _ := newRuntime(t)

	_, err := rt.Call("token", "selfdestruct", thor.Address{}, nil)
	assert.ErrorIs(t, err, runtime.ErrUnknownMethod)

	_, err = rt.Read("token", "transfer", thor.Address{}, nil)
	assert.ErrorIs(t, err, runtime.ErrNotReadOnly)

	_, err = rt.Call("token", "transfer", thor.Address{}, json.RawMessage(`{"amount":true}`))
	assert.ErrorIs(t, err, builtin.ErrBadArgs)
}

func TestClockDrivesAccrual(t *testing.T) {
	rt, clock, _ := newRuntime(t)
	user := genesis.DevAccounts()[1].Address

	_, err := rt.Call("collection", "setApprovalForAll", user, args(map[string]any{
		"operator": builtin.Staking.Address.String(),
		"approved": true,
	}))
	require.NoError(t, err)

	out, err := rt.Call("staking", "stake", user, args(map[string]any{"tokenIds": []string{"1", "2"}}))
	require.NoError(t, err)
	require.False(t, out.Reverted, "%v", out.Revert)

	clock.now = clock.now.Add(10 * time.Second)

	read, err := rt.Read("staking", "calculateRewards", user, args(map[string]any{"user": user.String()}))
	require.NoError(t, err)
	// two assets for ten seconds at one token per second
	assert.Equal(t, thor.Tokens(20), read.Data)

	out, err = rt.Call("staking", "claimRewards", user, nil)
	require.NoError(t, err)
	require.False(t, out.Reverted, "%v", out.Revert)
	assert.Equal(t, thor.Tokens(20), out.Data)
	assert.Equal(t, uint64(1526400010), out.Time)

	// time never runs backwards
	clock.now = clock.now.Add(-time.Hour)
	read, err = rt.Read("staking", "calculateRewards", user, args(map[string]any{"user": user.String()}))
	require.NoError(t, err)
	assert.Equal(t, uint64(1526400010), read.Time)
	assert.True(t, read.Data.(*uint256.Int).IsZero())
}
