// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/incentive/api"
	"github.com/vechain/incentive/genesis"
	"github.com/vechain/incentive/lvldb"
	"github.com/vechain/incentive/runtime"
	"github.com/vechain/incentive/thor"
)

func newServer(t *testing.T) (*httptest.Server, thor.Bytes32) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gen := genesis.NewDevnet()
	_, err = gen.Build(db)
	require.NoError(t, err)

	rt, err := runtime.New(db, runtime.Options{})
	require.NoError(t, err)

	ts := httptest.NewServer(api.New(rt, gen.Digest(), api.Options{}))
	t.Cleanup(ts.Close)
	return ts, gen.Digest()
}

func TestClient_Head(t *testing.T) {
	ts, digest := newServer(t)

	head, err := New(ts.URL + "/").Head()
	require.NoError(t, err)
	assert.Equal(t, digest, head.Genesis)
	assert.Equal(t, uint32(0), head.Number)
}

func TestClient_Contracts(t *testing.T) {
	ts, _ := newServer(t)

	list, err := New(ts.URL).Contracts()
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"collection", "pool", "staking", "token", "vault"}, names)
}

func TestClient_ReadAndCall(t *testing.T) {
	ts, _ := newServer(t)
	c := New(ts.URL)
	accs := genesis.DevAccounts()

	out, err := c.Read("token", "balanceOf", nil, map[string]string{"owner": accs[1].Address.String()})
	require.NoError(t, err)
	var bal uint256.Int
	require.NoError(t, out.Decode(&bal))
	assert.Equal(t, thor.Tokens(10_000), &bal)

	out, err = c.Call("token", "transfer", accs[1].Address, map[string]any{
		"to":     accs[2].Address.String(),
		"amount": "1",
	})
	require.NoError(t, err)
	assert.False(t, out.Reverted)
	assert.Equal(t, uint32(1), out.Number)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "Transfer", out.Events[0].Name)

	// read only methods may be posted too
	out, err = c.Call("token", "symbol", accs[1].Address, nil)
	require.NoError(t, err)
	var symbol string
	require.NoError(t, out.Decode(&symbol))
	assert.Equal(t, "RWT", symbol)

	out, err = c.Call("token", "mint", accs[1].Address, map[string]any{
		"to":     accs[1].Address.String(),
		"amount": "1",
	})
	require.NoError(t, err)
	assert.True(t, out.Reverted)
	require.NotNil(t, out.Revert)
	assert.Equal(t, "Unauthorized", out.Revert.Kind)
	assert.Error(t, out.Decode(new(string)))
}

func TestClient_Errors(t *testing.T) {
	ts, _ := newServer(t)
	c := New(ts.URL)

	_, err := c.Read("token", "selfdestruct", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Call("token", "transfer", thor.Address{}, map[string]any{"to": 42})
	assert.ErrorIs(t, err, ErrNot200Status)

	_, err = NewWithHTTP("http://127.0.0.1:1", http.DefaultClient).Head()
	assert.Error(t, err)
}
