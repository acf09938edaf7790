// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"github.com/holiman/uint256"
)

// Version of every builtin contract, exposed read-only for upgrade compatibility checks.
const Version = "1.0.0"

// TokenDecimals is the fixed-point scale of the reward token.
const TokenDecimals = 18

// Ether is one whole token in its smallest unit.
var Ether = uint256.NewInt(1e18)

var (
	MaxTokenSupply     = Tokens(10_000_000) // immutable mint cap of the reward token
	InitialTokenSupply = Tokens(1_000_000)  // minted to the owner once at initialization
	DefaultRewardRate  = Tokens(1)          // per staked asset per second
)

// Tokens returns n whole tokens in the smallest unit.
func Tokens(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), Ether)
}
