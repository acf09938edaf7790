// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/metrics"
	"github.com/vechain/incentive/thor"
)

var (
	metricMintCount = metrics.LazyLoadCounter("token_mint_count")
	// whole tokens, fractions are dropped
	metricMinted = metrics.LazyLoadCounter("token_minted_tokens_count")
)

// wholeTokens truncates amount to whole tokens, saturating at the int64 range.
func wholeTokens(amount *uint256.Int) int64 {
	whole := new(uint256.Int).Div(amount, thor.Ether)
	if !whole.IsUint64() || whole.Uint64() > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(whole.Uint64())
}
