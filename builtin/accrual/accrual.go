// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual computes linearly accruing rewards.
//
// Reward grows as weight x rate x elapsed seconds, where weight is the number
// of staked assets (or the staked amount for fungible stakes). All math is
// 256-bit and truncating. The strict forms report overflow, the saturating
// forms clamp to the largest uint256 instead.
package accrual

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/builtin/reverts"
)

// Pending returns the reward accrued over (last, now] for the given weight and rate.
// A clock that did not move forward yields zero.
func Pending(weight, rate *uint256.Int, last, now uint64) (*uint256.Int, error) {
	if now <= last || weight.IsZero() || rate.IsZero() {
		return new(uint256.Int), nil
	}
	elapsed := uint256.NewInt(now - last)

	perSecond, overflow := new(uint256.Int).MulOverflow(weight, rate)
	if overflow {
		return nil, reverts.Overflow("reward per second")
	}
	pending, overflow := new(uint256.Int).MulOverflow(perSecond, elapsed)
	if overflow {
		return nil, reverts.Overflow("pending reward")
	}
	return pending, nil
}

var maxUint256 = new(uint256.Int).SetAllOne()

// PendingSaturating is Pending clamped to the largest uint256 on overflow.
func PendingSaturating(weight, rate *uint256.Int, last, now uint64) *uint256.Int {
	pending, err := Pending(weight, rate, last, now)
	if err != nil {
		return maxUint256.Clone()
	}
	return pending
}

// Account is the accrual checkpoint of one staker.
type Account struct {
	Accrued  *uint256.Int // settled but unclaimed
	LastTime uint64       // when Accrued was last brought up to date
}

func (a *Account) accrued() *uint256.Int {
	if a.Accrued == nil {
		return new(uint256.Int)
	}
	return a.Accrued
}

// Calc returns the claimable total at now without changing the account.
func (a *Account) Calc(weight, rate *uint256.Int, now uint64) (*uint256.Int, error) {
	pending, err := Pending(weight, rate, a.LastTime, now)
	if err != nil {
		return nil, err
	}
	total, overflow := pending.AddOverflow(pending, a.accrued())
	if overflow {
		return nil, reverts.Overflow("claimable reward")
	}
	return total, nil
}

// CalcSaturating is Calc clamped to the largest uint256 on overflow.
func (a *Account) CalcSaturating(weight, rate *uint256.Int, now uint64) *uint256.Int {
	pending := PendingSaturating(weight, rate, a.LastTime, now)
	if _, overflow := pending.AddOverflow(pending, a.accrued()); overflow {
		return maxUint256.Clone()
	}
	return pending
}

// Settle folds the pending reward into Accrued and restarts the clock at now.
// It must run before the weight changes.
func (a *Account) Settle(weight, rate *uint256.Int, now uint64) error {
	total, err := a.Calc(weight, rate, now)
	if err != nil {
		return err
	}
	a.Accrued = total
	if now > a.LastTime {
		a.LastTime = now
	}
	return nil
}

// SettleSaturating is Settle for paths that must not fail on reward math.
func (a *Account) SettleSaturating(weight, rate *uint256.Int, now uint64) {
	a.Accrued = a.CalcSaturating(weight, rate, now)
	if now > a.LastTime {
		a.LastTime = now
	}
}

// Take settles, then empties the account and returns what was in it.
func (a *Account) Take(weight, rate *uint256.Int, now uint64) (*uint256.Int, error) {
	if err := a.Settle(weight, rate, now); err != nil {
		return nil, err
	}
	amount := a.accrued()
	a.Accrued = new(uint256.Int)
	return amount, nil
}
