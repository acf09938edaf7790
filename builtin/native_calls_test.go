// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin_test

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/incentive/builtin"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/lvldb"
	"github.com/vechain/incentive/state"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var (
	owner = thor.BytesToAddress([]byte("owner"))
	alice = thor.BytesToAddress([]byte("alice"))
)

type ctest struct {
	t   *testing.T
	env *xenv.Environment
}

func newTest(t *testing.T) *ctest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), &xenv.BlockContext{Time: 100}, nil)

	tok := builtin.Token.Native(env)
	require.NoError(t, tok.Initialize(owner, "Reward Token", "RWT", thor.InitialTokenSupply))
	require.NoError(t, tok.SetAuthorizedMinter(owner, builtin.Staking.Address))

	coll := builtin.Collection.Native(env)
	require.NoError(t, coll.Initialize(owner, "MyNFT", "MNFT", builtin.Token.Address))

	stk := builtin.Staking.Native(env)
	require.NoError(t, stk.Initialize(owner, builtin.Collection.Address, builtin.Token.Address, uint256.NewInt(1)))

	require.NoError(t, builtin.Vault.Native(env).Initialize(owner, builtin.Token.Address))
	require.NoError(t, builtin.Pool.Native(env).Initialize(owner, builtin.Token.Address, uint256.NewInt(1)))

	return &ctest{t, env}
}

func (c *ctest) call(contract, method string, caller thor.Address, args string) (any, error) {
	m, ok := builtin.FindMethod(contract, method)
	require.True(c.t, ok, "%s.%s", contract, method)
	return m.Call(c.env, caller, json.RawMessage(args))
}

func TestFindMethod(t *testing.T) {
	m, ok := builtin.FindMethod("token", "transfer")
	require.True(t, ok)
	assert.Equal(t, "transfer", m.Name())
	assert.Equal(t, "token", m.Contract())
	assert.Equal(t, builtin.Token.Address, m.Address())
	assert.False(t, m.ReadOnly())

	m, ok = builtin.FindMethod("vault", "getBalance")
	require.True(t, ok)
	assert.True(t, m.ReadOnly())

	_, ok = builtin.FindMethod("token", "selfdestruct")
	assert.False(t, ok)
	_, ok = builtin.FindMethod("unknown", "transfer")
	assert.False(t, ok)
}

func TestMethodsOrdered(t *testing.T) {
	methods := builtin.Methods()
	require.NotEmpty(t, methods)
	for i := 1; i < len(methods); i++ {
		prev, cur := methods[i-1], methods[i]
		if prev.Contract() == cur.Contract() {
			assert.Less(t, prev.Name(), cur.Name())
		} else {
			assert.Less(t, prev.Contract(), cur.Contract())
		}
	}

	seen := make(map[string]bool)
	for _, m := range methods {
		seen[m.Contract()] = true
	}
	for _, c := range builtin.Contracts() {
		assert.True(t, seen[c.Name()], c.Name())
	}
}

func TestContractAddresses(t *testing.T) {
	assert.Equal(t, thor.BytesToAddress([]byte("RewardToken")), builtin.Token.Address)
	assert.Equal(t, thor.BytesToAddress([]byte("StakingManager")), builtin.Staking.Address)

	addrs := make(map[thor.Address]bool)
	for _, c := range builtin.Contracts() {
		assert.False(t, addrs[c.Address], c.Name())
		addrs[c.Address] = true
	}
}

func TestTokenCalls(t *testing.T) {
	c := newTest(t)

	out, err := c.call("token", "symbol", alice, "")
	require.NoError(t, err)
	assert.Equal(t, "RWT", out)

	_, err = c.call("token", "transfer", owner, `{"to":"`+alice.String()+`","amount":"250"}`)
	require.NoError(t, err)

	out, err = c.call("token", "balanceOf", alice, `{"owner":"`+alice.String()+`"}`)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(250), out)

	events := c.env.Events()
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "Transfer", last.Name)
	assert.Equal(t, builtin.Token.Address, last.Address)
	assert.Equal(t, "250", last.Data["value"])

	_, err = c.call("token", "mint", alice, `{"to":"`+alice.String()+`","amount":"1"}`)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
}

func TestBadArgs(t *testing.T) {
	c := newTest(t)

	_, err := c.call("token", "transfer", owner, `{"to":42}`)
	assert.ErrorIs(t, err, builtin.ErrBadArgs)

	_, err = c.call("staking", "stake", owner, `[1,2]`)
	assert.ErrorIs(t, err, builtin.ErrBadArgs)

	// no args leaves every field zero
	_, err = c.call("token", "burn", owner, "")
	assert.ErrorIs(t, err, reverts.ErrInvalidAmount)
}

func TestStakeThroughDispatch(t *testing.T) {
	c := newTest(t)

	out, err := c.call("collection", "mint", owner, `{"to":"`+alice.String()+`","uri":"a.json"}`)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1), out)

	_, err = c.call("collection", "setApprovalForAll", alice,
		`{"operator":"`+builtin.Staking.Address.String()+`","approved":true}`)
	require.NoError(t, err)

	_, err = c.call("staking", "stake", alice, `{"tokenIds":["1"]}`)
	require.NoError(t, err)

	out, err = c.call("collection", "ownerOf", alice, `{"tokenId":"1"}`)
	require.NoError(t, err)
	assert.Equal(t, builtin.Staking.Address, out)

	c.env.BlockContext().Time = 110

	out, err = c.call("staking", "calculateRewards", alice, `{"user":"`+alice.String()+`"}`)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(10), out)

	out, err = c.call("staking", "claimRewards", alice, "")
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(10), out)

	out, err = c.call("token", "balanceOf", alice, `{"owner":"`+alice.String()+`"}`)
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(10), out)

	_, err = c.call("staking", "withdraw", owner, `{"tokenIds":["1"]}`)
	assert.ErrorIs(t, err, reverts.ErrTokenNotStaked)

	_, err = c.call("staking", "withdraw", alice, `{"tokenIds":["1"]}`)
	require.NoError(t, err)
	out, err = c.call("collection", "ownerOf", alice, `{"tokenId":"1"}`)
	require.NoError(t, err)
	assert.Equal(t, alice, out)
}

func TestUnknownCollaborator(t *testing.T) {
	c := newTest(t)

	_, err := c.call("staking", "setNFTCollection", owner, `{"addr":"`+alice.String()+`"}`)
	require.NoError(t, err)

	_, err = c.call("staking", "stake", alice, `{"tokenIds":["1"]}`)
	assert.ErrorIs(t, err, reverts.ErrUnknownContract)
}
