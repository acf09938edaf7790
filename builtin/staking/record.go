// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/builtin/accrual"
)

// StakeRecord is the ledger entry of one staker. It is created on the first
// stake and kept, possibly empty, after everything is withdrawn.
type StakeRecord struct {
	StakedIDs        []*uint256.Int
	LastAccrualTime  uint64
	AccruedUnclaimed *uint256.Int
}

// StakeInfo is the read-only projection returned to callers.
type StakeInfo struct {
	StakedIDs       []*uint256.Int `json:"stakedIds"`
	LastAccrualTime uint64         `json:"lastAccrualTime"`
	Claimable       *uint256.Int   `json:"claimable"`
}

func (r *StakeRecord) weight() *uint256.Int {
	return uint256.NewInt(uint64(len(r.StakedIDs)))
}

func (r *StakeRecord) account() *accrual.Account {
	return &accrual.Account{Accrued: r.AccruedUnclaimed, LastTime: r.LastAccrualTime}
}

func (r *StakeRecord) update(acc *accrual.Account) {
	r.AccruedUnclaimed = acc.Accrued
	r.LastAccrualTime = acc.LastTime
}

// settle brings the record up to date at its current weight.
func (r *StakeRecord) settle(rate *uint256.Int, now uint64) error {
	acc := r.account()
	if err := acc.Settle(r.weight(), rate, now); err != nil {
		return err
	}
	r.update(acc)
	return nil
}

// settleSaturating is settle that clamps the reward instead of failing.
func (r *StakeRecord) settleSaturating(rate *uint256.Int, now uint64) {
	acc := r.account()
	acc.SettleSaturating(r.weight(), rate, now)
	r.update(acc)
}

func (r *StakeRecord) claimable(rate *uint256.Int, now uint64) *uint256.Int {
	return r.account().CalcSaturating(r.weight(), rate, now)
}

func (r *StakeRecord) take(rate *uint256.Int, now uint64) (*uint256.Int, error) {
	acc := r.account()
	amount, err := acc.Take(r.weight(), rate, now)
	if err != nil {
		return nil, err
	}
	r.update(acc)
	return amount, nil
}

// remove drops ids, keeping the order of the remaining ones.
func (r *StakeRecord) remove(ids []*uint256.Int) {
	drop := make(map[uint256.Int]struct{}, len(ids))
	for _, id := range ids {
		drop[*id] = struct{}{}
	}
	kept := r.StakedIDs[:0]
	for _, id := range r.StakedIDs {
		if _, ok := drop[*id]; !ok {
			kept = append(kept, id)
		}
	}
	r.StakedIDs = kept
}
