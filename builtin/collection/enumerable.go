// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/builtin/solidity"
	"github.com/vechain/incentive/thor"
)

func idKey(id *uint256.Int) thor.Bytes32 {
	return thor.Bytes32(id.Bytes32())
}

func indexKey(i uint64) thor.Bytes32 {
	return thor.Bytes32(uint256.NewInt(i).Bytes32())
}

// indexList is a dense, index addressable list of token ids.
// Removal swaps the last element into the hole, so order is not kept.
type indexList struct {
	length  *solidity.Uint256
	items   *solidity.Mapping[thor.Bytes32, *uint256.Int] // key(index) => id
	indexOf *solidity.Mapping[thor.Bytes32, uint64]       // key(id) => index
	key     func(i uint64) thor.Bytes32
}

func newIndexList(sctx *solidity.Context, name string, key func(i uint64) thor.Bytes32) *indexList {
	return &indexList{
		length:  solidity.NewUint256(sctx, solidity.Slot(name+".length")),
		items:   solidity.NewMapping[thor.Bytes32, *uint256.Int](sctx, solidity.Slot(name+".items")),
		indexOf: solidity.NewMapping[thor.Bytes32, uint64](sctx, solidity.Slot(name+".index")),
		key:     key,
	}
}

func (l *indexList) Len() (uint64, error) {
	n, err := l.length.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// At returns nil when i is out of range.
func (l *indexList) At(i uint64) (*uint256.Int, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	if i >= n {
		return nil, nil
	}
	return l.items.Get(l.key(i))
}

func (l *indexList) Push(id *uint256.Int) error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	if err := l.items.Set(l.key(n), id.Clone()); err != nil {
		return err
	}
	if err := l.indexOf.Set(idKey(id), n); err != nil {
		return err
	}
	l.length.Set(uint256.NewInt(n + 1))
	return nil
}

func (l *indexList) Remove(id *uint256.Int) error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	idx, err := l.indexOf.Get(idKey(id))
	if err != nil {
		return err
	}
	last := n - 1
	if idx != last {
		moved, err := l.items.Get(l.key(last))
		if err != nil {
			return err
		}
		if err := l.items.Set(l.key(idx), moved); err != nil {
			return err
		}
		if err := l.indexOf.Set(idKey(moved), idx); err != nil {
			return err
		}
	}
	l.items.Delete(l.key(last))
	l.indexOf.Delete(idKey(id))
	l.length.Set(uint256.NewInt(last))
	return nil
}
