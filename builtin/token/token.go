// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/builtin/gate"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/builtin/solidity"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var logger = log.WithContext("pkg", "token")

var (
	slotName        = solidity.Slot("token.name")
	slotSymbol      = solidity.Slot("token.symbol")
	slotTotalSupply = solidity.Slot("token.total-supply")
	slotBalances    = solidity.Slot("token.balances")
	slotAllowances  = solidity.Slot("token.allowances")
)

// Token is the capped reward token. Only the authorized minter may grow the supply,
// and never beyond thor.MaxTokenSupply.
type Token struct {
	sctx *solidity.Context
	gate *gate.Gate

	name        *solidity.String
	symbol      *solidity.String
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *uint256.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *uint256.Int]
}

// New create a new instance.
func New(addr thor.Address, env *xenv.Environment) *Token {
	sctx := solidity.NewContext(addr, env)
	return &Token{
		sctx:        sctx,
		gate:        gate.New(sctx, "Contract is paused"),
		name:        solidity.NewString(sctx, slotName),
		symbol:      solidity.NewString(sctx, slotSymbol),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *uint256.Int](sctx, slotAllowances),
	}
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

// Initialize sets metadata and seeds initialSupply to the owner. It runs once.
func (t *Token) Initialize(owner thor.Address, name, symbol string, initialSupply *uint256.Int) error {
	return t.sctx.Atomic(func() error {
		if err := t.gate.Initialize(owner); err != nil {
			return err
		}
		if err := t.name.Set(name); err != nil {
			return err
		}
		if err := t.symbol.Set(symbol); err != nil {
			return err
		}
		if initialSupply != nil && !initialSupply.IsZero() {
			return t.mint(owner, initialSupply)
		}
		return nil
	})
}

//
// Getters - no state change
//

func (t *Token) Address() thor.Address              { return t.sctx.Address() }
func (t *Token) Version() string                    { return thor.Version }
func (t *Token) Decimals() uint8                    { return thor.TokenDecimals }
func (t *Token) MaxSupply() *uint256.Int            { return thor.MaxTokenSupply.Clone() }
func (t *Token) Name() (string, error)              { return t.name.Get() }
func (t *Token) Symbol() (string, error)            { return t.symbol.Get() }
func (t *Token) TotalSupply() (*uint256.Int, error) { return t.totalSupply.Get() }
func (t *Token) Owner() (thor.Address, error)       { return t.gate.Owner() }
func (t *Token) Paused() (bool, error)              { return t.gate.Paused() }

func (t *Token) AuthorizedMinter() (thor.Address, error) {
	return t.gate.AuthorizedMinter()
}

func (t *Token) BalanceOf(addr thor.Address) (*uint256.Int, error) {
	return t.balances.Get(addr)
}

func (t *Token) Allowance(owner, spender thor.Address) (*uint256.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

//
// Setters - state change
//

// Mint creates amount tokens for to. Only the authorized minter may call it.
func (t *Token) Mint(caller, to thor.Address, amount *uint256.Int) error {
	logger.Debug("minting", "caller", caller, "to", to, "amount", amount)

	err := t.sctx.Atomic(func() error {
		if err := t.gate.Guard(caller, gate.RoleMinter); err != nil {
			return err
		}
		if err := t.gate.RequireNotPaused(); err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.New(reverts.KindInvalidAmount, "Invalid amount")
		}
		if to.IsZero() {
			return reverts.New(reverts.KindInvalidAddress, "Invalid Recipient")
		}
		return t.mint(to, amount)
	})
	if err != nil {
		logger.Info("mint failed", "to", to, "error", err)
		return err
	}
	metricMintCount().Add(1)
	metricMinted().Add(wholeTokens(amount))
	return nil
}

func (t *Token) mint(to thor.Address, amount *uint256.Int) error {
	supply, err := t.totalSupply.Get()
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(supply, amount)
	if overflow || next.Gt(thor.MaxTokenSupply) {
		available := new(uint256.Int).Sub(thor.MaxTokenSupply, supply)
		return reverts.NewAmount(reverts.KindExceedsSupplyCap, "Exceeds max supply", amount, available)
	}
	t.totalSupply.Set(next)
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.sctx.Emit("Transfer", "from", thor.Address{}, "to", to, "value", amount)
	return nil
}

// Burn destroys amount of the caller's tokens.
func (t *Token) Burn(caller thor.Address, amount *uint256.Int) error {
	logger.Debug("burning", "caller", caller, "amount", amount)

	return t.sctx.Atomic(func() error {
		if amount.IsZero() {
			return reverts.New(reverts.KindInvalidAmount, "Invalid amount")
		}
		if err := t.subBalance(caller, amount); err != nil {
			return err
		}
		if _, err := t.totalSupply.Sub(amount); err != nil {
			return err
		}
		t.sctx.Emit("Transfer", "from", caller, "to", thor.Address{}, "value", amount)
		return nil
	})
}

// Transfer moves amount from caller to to.
func (t *Token) Transfer(caller, to thor.Address, amount *uint256.Int) error {
	return t.sctx.Atomic(func() error {
		return t.transfer(caller, to, amount)
	})
}

// Approve sets the allowance of spender over the caller's tokens.
func (t *Token) Approve(caller, spender thor.Address, amount *uint256.Int) error {
	return t.sctx.Atomic(func() error {
		if spender.IsZero() {
			return reverts.New(reverts.KindInvalidAddress, "Invalid spender")
		}
		if err := t.allowances.Set(allowanceKey(caller, spender), amount.Clone()); err != nil {
			return err
		}
		t.sctx.Emit("Approval", "owner", caller, "spender", spender, "value", amount)
		return nil
	})
}

// TransferFrom moves amount from from to to, spending the caller's allowance.
// An allowance of 2^256-1 is never decreased.
func (t *Token) TransferFrom(caller, from, to thor.Address, amount *uint256.Int) error {
	return t.sctx.Atomic(func() error {
		key := allowanceKey(from, caller)
		allowance, err := t.allowances.Get(key)
		if err != nil {
			return err
		}
		if allowance.Lt(amount) {
			return reverts.NewAmount(reverts.KindInsufficientAllowance, "Insufficient allowance", amount, allowance)
		}
		if !isInfinite(allowance) {
			if err := t.allowances.Set(key, new(uint256.Int).Sub(allowance, amount)); err != nil {
				return err
			}
		}
		return t.transfer(from, to, amount)
	})
}

func isInfinite(v *uint256.Int) bool {
	return v.Eq(new(uint256.Int).SetAllOne())
}

func (t *Token) transfer(from, to thor.Address, amount *uint256.Int) error {
	if err := t.gate.RequireNotPaused(); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.New(reverts.KindInvalidRecipient, "Invalid Recipient")
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.sctx.Emit("Transfer", "from", from, "to", to, "value", amount)
	return nil
}

func (t *Token) addBalance(addr thor.Address, amount *uint256.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return reverts.Overflow("balance")
	}
	return t.balances.Set(addr, bal)
}

func (t *Token) subBalance(addr thor.Address, amount *uint256.Int) error {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.NewAmount(reverts.KindInsufficientBalance, "Insufficient balance", amount, bal)
	}
	return t.balances.Set(addr, bal.Sub(bal, amount))
}

// SetAuthorizedMinter replaces the minter. Owner only.
func (t *Token) SetAuthorizedMinter(caller, minter thor.Address) error {
	return t.gate.SetAuthorizedMinter(caller, minter)
}

func (t *Token) Pause(caller thor.Address) error   { return t.gate.Pause(caller) }
func (t *Token) Unpause(caller thor.Address) error { return t.gate.Unpause(caller) }

func (t *Token) TransferOwnership(caller, newOwner thor.Address) error {
	return t.gate.TransferOwnership(caller, newOwner)
}
