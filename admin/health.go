// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"

	"github.com/vechain/incentive/builtin"
	"github.com/vechain/incentive/runtime"
	"github.com/vechain/incentive/thor"
)

// Runtime is the part of runtime.Runtime the health check reads.
type Runtime interface {
	Head() runtime.Head
	Read(contract, method string, caller thor.Address, args json.RawMessage) (*runtime.Output, error)
}

type Status struct {
	Healthy bool            `json:"healthy"`
	Number  uint32          `json:"number"`
	Time    uint64          `json:"time"`
	Paused  map[string]bool `json:"paused"`
	Error   string          `json:"error,omitempty"`
}

// Health reports the committed head and which contracts are paused.
// It is unhealthy when the state cannot be read.
type Health struct {
	rt Runtime
}

func NewHealth(rt Runtime) *Health {
	return &Health{rt}
}

func (h *Health) Status() *Status {
	head := h.rt.Head()
	status := &Status{
		Healthy: true,
		Number:  head.Number,
		Time:    head.Time,
		Paused:  make(map[string]bool),
	}

	for _, m := range builtin.Methods() {
		if m.Name() != "paused" {
			continue
		}
		out, err := h.rt.Read(m.Contract(), m.Name(), thor.Address{}, nil)
		if err == nil {
			err = out.Err()
		}
		if err != nil {
			logger.Warn("health check failed", "contract", m.Contract(), "err", err)
			status.Healthy = false
			status.Error = err.Error()
			return status
		}
		paused, _ := out.Data.(bool)
		status.Paused[m.Contract()] = paused
	}
	return status
}
