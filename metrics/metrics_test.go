// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, noop{}, a)
	}
	assert.Nil(t, HTTPHandler())

	families, err := Gatherer().Gather()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestPromMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	lazyCounter := LazyLoadCounter("calls_total")
	lazyGaugeVec := LazyLoadGaugeVec("staked_nfts", []string{"user"})

	InitializePrometheusMetrics()
	t.Cleanup(func() { metrics = defaultNoopMetrics() })

	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())

	lazyCounter().Add(3)
	Counter("calls_total").Add(2)
	lazyGaugeVec().SetWithLabel(5, map[string]string{"user": "a"})
	lazyGaugeVec().AddWithLabel(-2, map[string]string{"user": "a"})
	HistogramVec("call_duration_ms", []string{"op"}, BucketCallMillis).
		ObserveWithLabels(7, map[string]string{"op": "stake"})

	families, err := Gatherer().Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	assert.Equal(t, float64(5), byName["incentive_calls_total"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(3), byName["incentive_staked_nfts"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(7), byName["incentive_call_duration_ms"].Metric[0].GetHistogram().GetSampleSum())

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "incentive_calls_total 5"))
}
