// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/incentive/thor"
)

// String stores a dynamic string at a fixed position.
type String struct {
	context *Context
	pos     thor.Bytes32
}

func NewString(context *Context, pos thor.Bytes32) *String {
	return &String{context: context, pos: pos}
}

func (s *String) Get() (value string, err error) {
	err = s.context.State().DecodeStorage(s.context.address, s.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (s *String) Set(value string) error {
	if value == "" {
		s.context.State().SetRawStorage(s.context.address, s.pos, nil)
		return nil
	}
	return s.context.State().EncodeStorage(s.context.address, s.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
