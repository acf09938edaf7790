// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the treasury escrow. Anyone may deposit the
// configured token; only the owner pays it out.
package vault

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/builtin/gate"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/builtin/solidity"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var logger = log.WithContext("pkg", "vault")

var (
	slotToken   = solidity.Slot("vault.token")
	slotBalance = solidity.Slot("vault.escrowed-balance")
)

// FungibleToken is the escrowed token.
type FungibleToken interface {
	TransferFrom(caller, from, to thor.Address, amount *uint256.Int) error
	Transfer(caller, to thor.Address, amount *uint256.Int) error
}

// TokenResolver binds the escrowed token address to its implementation.
type TokenResolver func(addr thor.Address) (FungibleToken, error)

// Vault holds escrowed funds. The escrowed balance only moves through its
// own entrypoints, so it equals deposits minus payouts.
type Vault struct {
	sctx    *solidity.Context
	gate    *gate.Gate
	tokenOf TokenResolver

	token   *solidity.Address
	balance *solidity.Uint256
}

// New create a new instance.
func New(addr thor.Address, env *xenv.Environment, tokenOf TokenResolver) *Vault {
	sctx := solidity.NewContext(addr, env)
	return &Vault{
		sctx:    sctx,
		gate:    gate.New(sctx, "Vault is paused"),
		tokenOf: tokenOf,
		token:   solidity.NewAddress(sctx, slotToken),
		balance: solidity.NewUint256(sctx, slotBalance),
	}
}

// Initialize sets the owner and the escrowed token. It runs once.
func (v *Vault) Initialize(owner, token thor.Address) error {
	return v.sctx.Atomic(func() error {
		if err := v.gate.Initialize(owner); err != nil {
			return err
		}
		if token.IsZero() {
			return reverts.New(reverts.KindInvalidAddress, "Invalid token address")
		}
		v.token.Set(token)
		return nil
	})
}

func (v *Vault) Address() thor.Address              { return v.sctx.Address() }
func (v *Vault) Version() string                    { return thor.Version }
func (v *Vault) Owner() (thor.Address, error)       { return v.gate.Owner() }
func (v *Vault) Paused() (bool, error)              { return v.gate.Paused() }
func (v *Vault) RewardToken() (thor.Address, error) { return v.token.Get() }

// GetBalance returns the escrowed balance.
func (v *Vault) GetBalance() (*uint256.Int, error) {
	return v.balance.Get()
}

func (v *Vault) resolveToken() (FungibleToken, error) {
	addr, err := v.token.Get()
	if err != nil {
		return nil, err
	}
	if addr.IsZero() || v.tokenOf == nil {
		return nil, reverts.New(reverts.KindUnknownContract, "Vault token not set")
	}
	return v.tokenOf(addr)
}

// DepositFunds pulls amount from the caller, who must have approved the vault.
func (v *Vault) DepositFunds(caller thor.Address, amount *uint256.Int) error {
	logger.Debug("depositing", "from", caller, "amount", amount)

	err := v.sctx.Atomic(func() error {
		if err := v.gate.RequireNotPaused(); err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.New(reverts.KindInvalidAmount, "Invalid amount")
		}
		token, err := v.resolveToken()
		if err != nil {
			return err
		}
		if _, err := v.balance.Add(amount); err != nil {
			return err
		}
		if err := token.TransferFrom(v.sctx.Address(), caller, v.sctx.Address(), amount); err != nil {
			return err
		}
		v.sctx.Emit("FundsDeposited", "from", caller, "amount", amount)
		return nil
	})
	if err != nil {
		logger.Info("deposit failed", "from", caller, "error", err)
	}
	return err
}

// SendReward pays amount out of escrow to to. Owner only, blocked while paused.
func (v *Vault) SendReward(caller, to thor.Address, amount *uint256.Int) error {
	return v.payout(caller, to, amount, false)
}

// Withdraw is SendReward that keeps working while the vault is paused.
func (v *Vault) Withdraw(caller, to thor.Address, amount *uint256.Int) error {
	return v.payout(caller, to, amount, true)
}

func (v *Vault) payout(caller, to thor.Address, amount *uint256.Int, emergency bool) error {
	event, zeroMsg := "RewardSent", "invalid amount"
	if emergency {
		event, zeroMsg = "FundsWithdrawn", "Invalid amount"
	}
	logger.Debug("paying out", "to", to, "amount", amount, "emergency", emergency)

	err := v.sctx.Atomic(func() error {
		if err := v.gate.Guard(caller, gate.RoleOwner); err != nil {
			return err
		}
		if !emergency {
			if err := v.gate.RequireNotPaused(); err != nil {
				return err
			}
		}
		if amount.IsZero() {
			return reverts.New(reverts.KindInvalidAmount, zeroMsg)
		}
		if to.IsZero() {
			return reverts.New(reverts.KindInvalidRecipient, "Invalid Recipient")
		}
		balance, err := v.balance.Get()
		if err != nil {
			return err
		}
		if balance.Lt(amount) {
			return reverts.NewAmount(reverts.KindInsufficientBalance, "Insufficient balance", amount, balance)
		}
		token, err := v.resolveToken()
		if err != nil {
			return err
		}
		v.balance.Set(new(uint256.Int).Sub(balance, amount))
		if err := token.Transfer(v.sctx.Address(), to, amount); err != nil {
			return err
		}
		v.sctx.Emit(event, "to", to, "amount", amount)
		return nil
	})
	if err != nil {
		logger.Info("payout failed", "to", to, "emergency", emergency, "error", err)
	}
	return err
}

func (v *Vault) Pause(caller thor.Address) error   { return v.gate.Pause(caller) }
func (v *Vault) Unpause(caller thor.Address) error { return v.gate.Unpause(caller) }

func (v *Vault) TransferOwnership(caller, newOwner thor.Address) error {
	return v.gate.TransferOwnership(caller, newOwner)
}
