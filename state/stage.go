// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/incentive/kv"
	"github.com/vechain/incentive/thor"
)

type change struct {
	key   []byte
	value rlp.RawValue
}

// Stage abstracts the pending changes of a state.
type Stage struct {
	changes []change
}

func newStage(m map[storageKey]rlp.RawValue) *Stage {
	changes := make([]change, 0, len(m))
	for k, v := range m {
		changes = append(changes, change{k.dbKey(), v})
	}
	sort.Slice(changes, func(i, j int) bool {
		return bytes.Compare(changes[i].key, changes[j].key) < 0
	})
	return &Stage{changes}
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes the digest of the change set.
// Equal change sets always yield equal digests.
func (s *Stage) Hash() thor.Bytes32 {
	hasher := thor.NewBlake2b()
	for _, c := range s.changes {
		hasher.Write(c.key)
		hasher.Write(c.value)
	}
	var h thor.Bytes32
	hasher.Sum(h[:0])
	return h
}

// Commit writes all changes into the putter.
// Slots set to empty are deleted.
func (s *Stage) Commit(putter kv.Putter) error {
	putter = storageBucket.NewPutter(putter)
	for _, c := range s.changes {
		var err error
		if len(c.value) == 0 {
			err = putter.Delete(c.key)
		} else {
			err = putter.Put(c.key, c.value)
		}
		if err != nil {
			return &Error{err}
		}
	}
	metricSlotWrites().Add(int64(len(s.changes)))
	return nil
}
