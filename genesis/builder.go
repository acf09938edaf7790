// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/incentive/kv"
	"github.com/vechain/incentive/lvldb"
	"github.com/vechain/incentive/runtime"
	"github.com/vechain/incentive/state"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

// Builder helper to build the initial state.
type Builder struct {
	timestamp uint64
	procs     []func(env *xenv.Environment) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// Setup add a setup process. Processes run in order inside one atomic unit.
func (b *Builder) Setup(proc func(env *xenv.Environment) error) *Builder {
	b.procs = append(b.procs, proc)
	return b
}

// ComputeDigest computes the digest of the initial state.
func (b *Builder) ComputeDigest() (thor.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return thor.Bytes32{}, err
	}
	defer db.Close()
	return b.Build(db)
}

// Build runs all setup processes and commits the result into db.
func (b *Builder) Build(db kv.Store) (thor.Bytes32, error) {
	env := xenv.New(state.New(db), &xenv.BlockContext{Time: b.timestamp}, nil)

	err := env.Atomic(func() error {
		for _, proc := range b.procs {
			if err := proc(env); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "setup")
	}

	stage := env.State().Stage()
	batch := db.NewBatch()
	if err := stage.Commit(batch); err != nil {
		return thor.Bytes32{}, err
	}
	if err := runtime.SaveHead(batch, runtime.Head{Time: b.timestamp}); err != nil {
		return thor.Bytes32{}, err
	}
	if err := batch.Write(); err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "commit genesis")
	}
	return stage.Hash(), nil
}
