// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/incentive/state"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

// Context binds a builtin contract address to the executing environment.
type Context struct {
	address thor.Address
	env     *xenv.Environment
}

func NewContext(address thor.Address, env *xenv.Environment) *Context {
	return &Context{
		address: address,
		env:     env,
	}
}

func (c *Context) Address() thor.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.env.State()
}

// Now returns the block time the call executes at.
func (c *Context) Now() uint64 {
	return c.env.BlockTime()
}

// Emit records an event from the bound contract.
func (c *Context) Emit(name string, kv ...any) {
	c.env.Emit(c.address, name, kv...)
}

// Atomic runs fn so that it either applies entirely or not at all.
func (c *Context) Atomic(fn func() error) error {
	return c.env.Atomic(fn)
}

// Slot derives a storage position from a name.
func Slot(name string) thor.Bytes32 {
	return thor.Blake2b([]byte(name))
}
