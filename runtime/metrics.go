// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/incentive/metrics"

var (
	metricCallCount    = metrics.LazyLoadCounterVec("runtime_call_count", []string{"contract", "method", "status"})
	metricCallDuration = metrics.LazyLoadHistogramVec("runtime_call_duration_ms", []string{"contract"}, metrics.BucketCallMillis)
	metricTokenSupply  = metrics.LazyLoadGauge("runtime_token_supply")
	metricTotalStaked  = metrics.LazyLoadGauge("runtime_total_staked")
)
