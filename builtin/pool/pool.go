// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pool implements a fungible stake pool. Stakers earn points per
// staked unit per second, credited to an internal ledger on claim.
package pool

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/builtin/accrual"
	"github.com/vechain/incentive/builtin/gate"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/builtin/solidity"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var logger = log.WithContext("pkg", "pool")

var (
	slotRate        = solidity.Slot("pool.reward-rate")
	slotToken       = solidity.Slot("pool.token")
	slotTotalStaked = solidity.Slot("pool.total-staked")
	slotPositions   = solidity.Slot("pool.positions")
	slotRewards     = solidity.Slot("pool.rewards")
)

// FungibleToken is the token held by the pool while staked.
type FungibleToken interface {
	TransferFrom(caller, from, to thor.Address, amount *uint256.Int) error
	Transfer(caller, to thor.Address, amount *uint256.Int) error
}

// TokenResolver binds the pool token address to its implementation.
type TokenResolver func(addr thor.Address) (FungibleToken, error)

// Position is the stake of one user.
type Position struct {
	Staked    *uint256.Int
	Timestamp uint64 // start of the current accrual period
	Accrued   *uint256.Int
}

func (p *Position) account() *accrual.Account {
	return &accrual.Account{Accrued: p.Accrued, LastTime: p.Timestamp}
}

func (p *Position) update(acc *accrual.Account) {
	p.Accrued = acc.Accrued
	p.Timestamp = acc.LastTime
}

// Pool is the fungible stake pool. Without a configured token it only keeps
// the books and moves no funds.
type Pool struct {
	sctx    *solidity.Context
	gate    *gate.Gate
	tokenOf TokenResolver

	rate        *solidity.Uint256
	token       *solidity.Address
	totalStaked *solidity.Uint256
	positions   *solidity.Mapping[thor.Address, *Position]
	rewards     *solidity.Mapping[thor.Address, *uint256.Int]
}

// New create a new instance.
func New(addr thor.Address, env *xenv.Environment, tokenOf TokenResolver) *Pool {
	sctx := solidity.NewContext(addr, env)
	return &Pool{
		sctx:        sctx,
		gate:        gate.New(sctx, "Contract is paused"),
		tokenOf:     tokenOf,
		rate:        solidity.NewUint256(sctx, slotRate),
		token:       solidity.NewAddress(sctx, slotToken),
		totalStaked: solidity.NewUint256(sctx, slotTotalStaked),
		positions:   solidity.NewMapping[thor.Address, *Position](sctx, slotPositions),
		rewards:     solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotRewards),
	}
}

// Initialize sets the owner, the staked token (zero for a bookkeeping only
// pool) and the reward rate per staked unit per second.
func (p *Pool) Initialize(owner, token thor.Address, rate *uint256.Int) error {
	return p.sctx.Atomic(func() error {
		if err := p.gate.Initialize(owner); err != nil {
			return err
		}
		p.token.Set(token)
		p.rate.Set(rate)
		return nil
	})
}

func (p *Pool) Address() thor.Address              { return p.sctx.Address() }
func (p *Pool) Version() string                    { return thor.Version }
func (p *Pool) Owner() (thor.Address, error)       { return p.gate.Owner() }
func (p *Pool) Paused() (bool, error)              { return p.gate.Paused() }
func (p *Pool) Token() (thor.Address, error)       { return p.token.Get() }
func (p *Pool) RewardRate() (*uint256.Int, error)  { return p.rate.Get() }
func (p *Pool) TotalStaked() (*uint256.Int, error) { return p.totalStaked.Get() }

func (p *Pool) RewardsOf(user thor.Address) (*uint256.Int, error) {
	return p.rewards.Get(user)
}

func (p *Pool) position(user thor.Address) (*Position, error) {
	pos, err := p.positions.Get(user)
	if err != nil {
		return nil, err
	}
	if pos.Staked == nil {
		pos.Staked = new(uint256.Int)
	}
	if pos.Accrued == nil {
		pos.Accrued = new(uint256.Int)
	}
	return pos, nil
}

func (p *Pool) UserStaked(user thor.Address) (*uint256.Int, error) {
	pos, err := p.position(user)
	if err != nil {
		return nil, err
	}
	return pos.Staked, nil
}

func (p *Pool) StakeTimestamp(user thor.Address) (uint64, error) {
	pos, err := p.position(user)
	if err != nil {
		return 0, err
	}
	return pos.Timestamp, nil
}

// CalculateRewards returns what a claim by user would credit now.
func (p *Pool) CalculateRewards(user thor.Address) (*uint256.Int, error) {
	pos, err := p.position(user)
	if err != nil {
		return nil, err
	}
	rate, err := p.rate.Get()
	if err != nil {
		return nil, err
	}
	return pos.account().Calc(pos.Staked, rate, p.sctx.Now())
}

func (p *Pool) settle(pos *Position) error {
	rate, err := p.rate.Get()
	if err != nil {
		return err
	}
	acc := pos.account()
	if err := acc.Settle(pos.Staked, rate, p.sctx.Now()); err != nil {
		return err
	}
	pos.update(acc)
	return nil
}

func (p *Pool) resolveToken() (FungibleToken, error) {
	addr, err := p.token.Get()
	if err != nil {
		return nil, err
	}
	if addr.IsZero() {
		return nil, nil
	}
	if p.tokenOf == nil {
		return nil, reverts.New(reverts.KindUnknownContract, "Pool token not bound")
	}
	return p.tokenOf(addr)
}

// Stake adds amount to the caller's position, pulling it from the caller
// when the pool holds a token.
func (p *Pool) Stake(caller thor.Address, amount *uint256.Int) error {
	logger.Debug("staking", "user", caller, "amount", amount)

	err := p.sctx.Atomic(func() error {
		if err := p.gate.RequireNotPaused(); err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.New(reverts.KindInvalidAmount, "Amount must be positive")
		}
		pos, err := p.position(caller)
		if err != nil {
			return err
		}
		if err := p.settle(pos); err != nil {
			return err
		}
		if _, overflow := pos.Staked.AddOverflow(pos.Staked, amount); overflow {
			return reverts.Overflow("staked amount")
		}
		if err := p.positions.Set(caller, pos); err != nil {
			return err
		}
		if _, err := p.totalStaked.Add(amount); err != nil {
			return err
		}

		token, err := p.resolveToken()
		if err != nil {
			return err
		}
		if token != nil {
			if err := token.TransferFrom(p.sctx.Address(), caller, p.sctx.Address(), amount); err != nil {
				return err
			}
		}
		p.sctx.Emit("Staked", "user", caller, "amount", amount)
		return nil
	})
	if err != nil {
		logger.Info("stake failed", "user", caller, "error", err)
	}
	return err
}

// Unstake takes amount out of the caller's position. Accrued points are kept.
func (p *Pool) Unstake(caller thor.Address, amount *uint256.Int) error {
	logger.Debug("unstaking", "user", caller, "amount", amount)

	err := p.sctx.Atomic(func() error {
		if amount.IsZero() {
			return reverts.New(reverts.KindInvalidAmount, "Amount must be positive")
		}
		pos, err := p.position(caller)
		if err != nil {
			return err
		}
		if pos.Staked.Lt(amount) {
			return reverts.NewAmount(reverts.KindInsufficientBalance, "Not enough staked", amount, pos.Staked)
		}
		if err := p.settle(pos); err != nil {
			return err
		}
		pos.Staked.Sub(pos.Staked, amount)
		if err := p.positions.Set(caller, pos); err != nil {
			return err
		}
		if _, err := p.totalStaked.Sub(amount); err != nil {
			return err
		}

		token, err := p.resolveToken()
		if err != nil {
			return err
		}
		if token != nil {
			if err := token.Transfer(p.sctx.Address(), caller, amount); err != nil {
				return err
			}
		}
		p.sctx.Emit("Unstaked", "user", caller, "amount", amount)
		return nil
	})
	if err != nil {
		logger.Info("unstake failed", "user", caller, "error", err)
	}
	return err
}

// ClaimRewards credits the caller's accrued points to its reward balance and
// restarts the accrual period.
func (p *Pool) ClaimRewards(caller thor.Address) (*uint256.Int, error) {
	var amount *uint256.Int
	err := p.sctx.Atomic(func() error {
		pos, err := p.position(caller)
		if err != nil {
			return err
		}
		rate, err := p.rate.Get()
		if err != nil {
			return err
		}
		acc := pos.account()
		if amount, err = acc.Take(pos.Staked, rate, p.sctx.Now()); err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.New(reverts.KindNoRewardsAvailable, "No rewards available")
		}
		pos.update(acc)
		if err := p.positions.Set(caller, pos); err != nil {
			return err
		}
		balance, err := p.rewards.Get(caller)
		if err != nil {
			return err
		}
		if _, overflow := balance.AddOverflow(balance, amount); overflow {
			return reverts.Overflow("reward balance")
		}
		if err := p.rewards.Set(caller, balance); err != nil {
			return err
		}
		p.sctx.Emit("RewardsClaimed", "user", caller, "amount", amount)
		return nil
	})
	if err != nil {
		logger.Info("claim failed", "user", caller, "error", err)
		return nil, err
	}
	return amount, nil
}

func (p *Pool) SetRewardRate(caller thor.Address, rate *uint256.Int) error {
	return p.sctx.Atomic(func() error {
		if err := p.gate.Guard(caller, gate.RoleOwner); err != nil {
			return err
		}
		p.rate.Set(rate)
		p.sctx.Emit("RewardRateUpdated", "rate", rate)
		return nil
	})
}

func (p *Pool) SetPaused(caller thor.Address, paused bool) error {
	return p.gate.SetPaused(caller, paused)
}

func (p *Pool) TransferOwnership(caller, newOwner thor.Address) error {
	return p.gate.TransferOwnership(caller, newOwner)
}
