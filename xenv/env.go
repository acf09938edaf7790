// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/vechain/incentive/state"
	"github.com/vechain/incentive/thor"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ID     thor.Bytes32
	Origin thor.Address
}

// Event is emitted by a builtin while handling a call.
type Event struct {
	Address thor.Address      `json:"address"`
	Name    string            `json:"name"`
	Data    map[string]string `json:"data"`
}

// Environment an env to execute native method.
type Environment struct {
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	events   []*Event
}

// Revision marks a point the environment can be reverted to.
type Revision struct {
	state  int
	events int
}

// New create a new env.
func New(state *state.State, blockCtx *BlockContext, txCtx *TransactionContext) *Environment {
	if blockCtx == nil {
		blockCtx = &BlockContext{}
	}
	if txCtx == nil {
		txCtx = &TransactionContext{}
	}
	return &Environment{
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockTime() uint64                       { return env.blockCtx.Time }

// Events returns events emitted so far.
func (env *Environment) Events() []*Event {
	return env.events
}

// Emit records an event. kv is a list of name/value pairs.
func (env *Environment) Emit(addr thor.Address, name string, kv ...any) {
	if len(kv)%2 != 0 {
		panic(fmt.Errorf("odd event args for %s", name))
	}
	data := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		data[kv[i].(string)] = formatValue(kv[i+1])
	}
	env.events = append(env.events, &Event{Address: addr, Name: name, Data: data})
}

// Checkpoint makes a revision covering both state and events.
func (env *Environment) Checkpoint() Revision {
	return Revision{state: env.state.NewCheckpoint(), events: len(env.events)}
}

// RevertTo drops state changes and events made after rev.
func (env *Environment) RevertTo(rev Revision) {
	env.state.RevertTo(rev.state)
	env.events = env.events[:rev.events]
}

// Atomic runs fn and reverts everything it did when it fails.
func (env *Environment) Atomic(fn func() error) error {
	rev := env.Checkpoint()
	if err := fn(); err != nil {
		env.RevertTo(rev)
		return err
	}
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case thor.Address:
		return val.String()
	case *uint256.Int:
		if val == nil {
			return "0"
		}
		return val.Dec()
	case []*uint256.Int:
		parts := make([]string, 0, len(val))
		for _, id := range val {
			parts = append(parts, id.Dec())
		}
		return strings.Join(parts, ",")
	case bool:
		return strconv.FormatBool(val)
	case uint64:
		return strconv.FormatUint(val, 10)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
