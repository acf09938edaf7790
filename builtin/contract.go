// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/incentive/thor"
)

type contract struct {
	name    string
	Address thor.Address
}

// newContract binds name to its fixed address, derived from the
// contract's deployment name.
func newContract(name, deployName string) *contract {
	return &contract{
		name,
		thor.BytesToAddress([]byte(deployName)),
	}
}

// Name is the path segment the contract is reachable under.
func (c *contract) Name() string {
	return c.name
}

func (c *contract) impl(name string, readOnly bool, run func(env *env) (any, error)) *Method {
	return &Method{
		contract: c,
		name:     name,
		readOnly: readOnly,
		run:      run,
	}
}
