// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	pkgerrors "github.com/pkg/errors"

	"github.com/vechain/incentive/builtin"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/kv"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/state"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var logger = log.WithContext("pkg", "runtime")

var (
	ErrUnknownMethod = errors.New("unknown method")
	ErrNotReadOnly   = errors.New("method changes state")
)

// Revert describes why a call was rejected.
type Revert struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func newRevert(err *reverts.Error) *Revert {
	return &Revert{
		Kind:    err.Kind.String(),
		Message: err.Error(),
		Data:    hexutil.Encode(err.Bytes()),
	}
}

// Output is the result of a single call.
// Events and Digest are only set for committed calls.
type Output struct {
	Contract string         `json:"contract"`
	Method   string         `json:"method"`
	Caller   thor.Address   `json:"caller"`
	Number   uint32         `json:"number"`
	Time     uint64         `json:"time"`
	Data     any            `json:"data,omitempty"`
	Events   []*xenv.Event  `json:"events"`
	Digest   thor.Bytes32   `json:"digest"`
	Reverted bool           `json:"reverted"`
	Revert   *Revert        `json:"revert,omitempty"`
	err      *reverts.Error
}

// Err returns the revert as an error, or nil.
func (o *Output) Err() error {
	if o.err == nil {
		return nil
	}
	return o.err
}

// Options tunes a Runtime.
type Options struct {
	// Clock returns the wall time. Defaults to time.Now.
	Clock func() time.Time
}

// Runtime executes builtin calls one at a time against the store.
// A call either commits all of its writes or none.
type Runtime struct {
	db    kv.Store
	clock func() time.Time

	mu   sync.RWMutex
	head Head
}

// New create a Runtime over db.
func New(db kv.Store, opts Options) (*Runtime, error) {
	head, err := LoadHead(db)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Runtime{
		db:    db,
		clock: clock,
		head:  head,
	}, nil
}

// Head returns the last committed call position.
func (rt *Runtime) Head() Head {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.head
}

// now reads the clock once and never goes backwards.
func (rt *Runtime) now() uint64 {
	ts := rt.clock().Unix()
	if ts < 0 {
		ts = 0
	}
	if uint64(ts) < rt.head.Time {
		return rt.head.Time
	}
	return uint64(ts)
}

func (rt *Runtime) newEnv(number uint32, ts uint64, caller thor.Address) *xenv.Environment {
	return xenv.New(
		state.New(rt.db),
		&xenv.BlockContext{Number: number, Time: ts},
		&xenv.TransactionContext{Origin: caller},
	)
}

// Call executes a state changing method for caller and commits it on success.
// A rejected call yields an Output with Reverted set and a nil error.
func (rt *Runtime) Call(contract, method string, caller thor.Address, args json.RawMessage) (*Output, error) {
	m, ok := builtin.FindMethod(contract, method)
	if !ok {
		return nil, pkgerrors.WithMessagef(ErrUnknownMethod, "%s.%s", contract, method)
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	number := rt.head.Number + 1
	ts := rt.now()
	env := rt.newEnv(number, ts, caller)

	out := &Output{
		Contract: contract,
		Method:   method,
		Caller:   caller,
		Number:   number,
		Time:     ts,
		Events:   []*xenv.Event{},
	}

	defer func() {
		metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"contract": contract})
	}()

	data, err := m.Call(env, caller, args)
	if err != nil {
		var rerr *reverts.Error
		if errors.As(err, &rerr) {
			logger.Debug("call reverted", "contract", contract, "method", method, "caller", caller, "error", rerr)
			metricCallCount().AddWithLabel(1, map[string]string{"contract": contract, "method": method, "status": "reverted"})
			out.Reverted = true
			out.Revert = newRevert(rerr)
			out.err = rerr
			return out, nil
		}
		metricCallCount().AddWithLabel(1, map[string]string{"contract": contract, "method": method, "status": "error"})
		return nil, err
	}

	stage := env.State().Stage()
	batch := rt.db.NewBatch()
	if err := stage.Commit(batch); err != nil {
		return nil, err
	}
	head := Head{Number: number, Time: ts}
	if err := head.put(batch); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, pkgerrors.Wrap(err, "commit call")
	}
	rt.head = head

	out.Data = data
	out.Events = append(out.Events, env.Events()...)
	out.Digest = stage.Hash()

	metricCallCount().AddWithLabel(1, map[string]string{"contract": contract, "method": method, "status": "ok"})
	rt.updateGauges(env)

	logger.Debug("call committed", "contract", contract, "method", method, "caller", caller, "number", number, "slots", stage.Len())
	return out, nil
}

// Read evaluates a read only method at the current time. Nothing is committed.
func (rt *Runtime) Read(contract, method string, caller thor.Address, args json.RawMessage) (*Output, error) {
	m, ok := builtin.FindMethod(contract, method)
	if !ok {
		return nil, pkgerrors.WithMessagef(ErrUnknownMethod, "%s.%s", contract, method)
	}
	if !m.ReadOnly() {
		return nil, pkgerrors.WithMessagef(ErrNotReadOnly, "%s.%s", contract, method)
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	ts := rt.now()
	env := rt.newEnv(rt.head.Number, ts, caller)
	out := &Output{
		Contract: contract,
		Method:   method,
		Caller:   caller,
		Number:   rt.head.Number,
		Time:     ts,
	}
	data, err := m.Call(env, caller, args)
	if err != nil {
		var rerr *reverts.Error
		if errors.As(err, &rerr) {
			out.Reverted = true
			out.Revert = newRevert(rerr)
			out.err = rerr
			return out, nil
		}
		return nil, err
	}
	out.Data = data
	return out, nil
}

func (rt *Runtime) updateGauges(env *xenv.Environment) {
	if supply, err := builtin.Token.Native(env).TotalSupply(); err == nil {
		whole := supply.Clone()
		whole.Div(whole, thor.Ether)
		metricTokenSupply().Set(int64(whole.Uint64()))
	}
	if staked, err := builtin.Staking.Native(env).TotalStaked(); err == nil {
		metricTotalStaked().Set(int64(staked.Uint64()))
	}
}
