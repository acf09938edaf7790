// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package contracts

import (
	"encoding/json"

	"github.com/vechain/incentive/thor"
)

// CallData is the body of a call request. Args holds the named arguments
// of the method.
type CallData struct {
	Caller thor.Address    `json:"caller"`
	Args   json.RawMessage `json:"args"`
}

// Method describes one callable method.
type Method struct {
	Name     string `json:"name"`
	ReadOnly bool   `json:"readOnly"`
}

// Contract describes a builtin and its methods.
type Contract struct {
	Name    string       `json:"name"`
	Address thor.Address `json:"address"`
	Methods []Method     `json:"methods"`
}
