// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsRoot(t *testing.T) {
	logger := WithContext("pkg", "staking")

	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	SetDefault(NewJSONHandler(&buf, &lvl))
	t.Cleanup(func() { SetDefault(DiscardHandler()) })

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.New("user", "0x01").Info("staked", "count", 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "staked", rec["msg"])
	assert.Equal(t, "staking", rec["pkg"])
	assert.Equal(t, "0x01", rec["user"])
	assert.Equal(t, float64(2), rec["count"])

	buf.Reset()
	lvl.Set(LevelDebug)
	logger.Debug("visible")
	assert.NotZero(t, buf.Len())
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(5))
}
