// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/incentive/kv"
)

var (
	headBucket = kv.Bucket("r")
	headKey    = []byte("head")
)

// Head is the position of the last committed call.
type Head struct {
	Number uint32
	Time   uint64
}

// LoadHead reads the head from db. A fresh store has a zero head.
func LoadHead(db kv.Getter) (Head, error) {
	var head Head
	data, err := headBucket.NewGetter(db).Get(headKey)
	if err != nil {
		if db.IsNotFound(err) {
			return head, nil
		}
		return head, errors.Wrap(err, "load head")
	}
	if err := rlp.DecodeBytes(data, &head); err != nil {
		return head, errors.Wrap(err, "decode head")
	}
	return head, nil
}

func (h Head) put(putter kv.Putter) error {
	data, err := rlp.EncodeToBytes(&h)
	if err != nil {
		return err
	}
	return headBucket.NewPutter(putter).Put(headKey, data)
}

// SaveHead writes h into putter.
func SaveHead(putter kv.Putter, h Head) error {
	return h.put(putter)
}
