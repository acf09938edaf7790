// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package collection implements the enumerable non-fungible asset registry
// whose tokens are staked in the stake registry.
package collection

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/builtin/gate"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/builtin/solidity"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var logger = log.WithContext("pkg", "collection")

var (
	slotName         = solidity.Slot("collection.name")
	slotSymbol       = solidity.Slot("collection.symbol")
	slotBaseURI      = solidity.Slot("collection.base-uri")
	slotMintPrice    = solidity.Slot("collection.mint-price")
	slotLastID       = solidity.Slot("collection.last-id")
	slotCollected    = solidity.Slot("collection.collected")
	slotPaymentToken = solidity.Slot("collection.payment-token")
	slotOwners       = solidity.Slot("collection.owners")
	slotURIs         = solidity.Slot("collection.uris")
	slotApprovals    = solidity.Slot("collection.approvals")
	slotOperators    = solidity.Slot("collection.operators")
)

// PaymentToken is the fungible token public mints are paid in.
type PaymentToken interface {
	TransferFrom(caller, from, to thor.Address, amount *uint256.Int) error
	Transfer(caller, to thor.Address, amount *uint256.Int) error
}

// TokenResolver binds a payment token address to its implementation.
type TokenResolver func(addr thor.Address) (PaymentToken, error)

// Collection is an owner-minted, publicly mintable and enumerable NFT registry.
type Collection struct {
	sctx    *solidity.Context
	gate    *gate.Gate
	tokenOf TokenResolver

	name         *solidity.String
	symbol       *solidity.String
	baseURI      *solidity.String
	mintPrice    *solidity.Uint256
	lastID       *solidity.Uint256
	collected    *solidity.Uint256
	paymentToken *solidity.Address
	owners       *solidity.Mapping[thor.Bytes32, thor.Address]
	uris         *solidity.Mapping[thor.Bytes32, string]
	approvals    *solidity.Mapping[thor.Bytes32, thor.Address]
	operators    *solidity.Mapping[thor.Bytes32, bool]
	all          *indexList
}

// New create a new instance.
func New(addr thor.Address, env *xenv.Environment, tokenOf TokenResolver) *Collection {
	sctx := solidity.NewContext(addr, env)
	return &Collection{
		sctx:         sctx,
		gate:         gate.New(sctx, ""),
		tokenOf:      tokenOf,
		name:         solidity.NewString(sctx, slotName),
		symbol:       solidity.NewString(sctx, slotSymbol),
		baseURI:      solidity.NewString(sctx, slotBaseURI),
		mintPrice:    solidity.NewUint256(sctx, slotMintPrice),
		lastID:       solidity.NewUint256(sctx, slotLastID),
		collected:    solidity.NewUint256(sctx, slotCollected),
		paymentToken: solidity.NewAddress(sctx, slotPaymentToken),
		owners:       solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotOwners),
		uris:         solidity.NewMapping[thor.Bytes32, string](sctx, slotURIs),
		approvals:    solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotApprovals),
		operators:    solidity.NewMapping[thor.Bytes32, bool](sctx, slotOperators),
		all:          newIndexList(sctx, "collection.all", indexKey),
	}
}

func (c *Collection) owned(owner thor.Address) *indexList {
	return newIndexList(c.sctx, "collection.owned."+owner.String(), indexKey)
}

func operatorKey(owner, operator thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), operator.Bytes())
}

// Initialize sets the owner and metadata. paymentToken may be zero while
// public minting is free.
func (c *Collection) Initialize(owner thor.Address, name, symbol string, paymentToken thor.Address) error {
	return c.sctx.Atomic(func() error {
		if err := c.gate.Initialize(owner); err != nil {
			return err
		}
		if err := c.name.Set(name); err != nil {
			return err
		}
		if err := c.symbol.Set(symbol); err != nil {
			return err
		}
		c.paymentToken.Set(paymentToken)
		return nil
	})
}

//
// Getters - no state change
//

func (c *Collection) Address() thor.Address               { return c.sctx.Address() }
func (c *Collection) Version() string                     { return thor.Version }
func (c *Collection) Name() (string, error)               { return c.name.Get() }
func (c *Collection) Symbol() (string, error)             { return c.symbol.Get() }
func (c *Collection) BaseURI() (string, error)            { return c.baseURI.Get() }
func (c *Collection) MintPrice() (*uint256.Int, error)    { return c.mintPrice.Get() }
func (c *Collection) Collected() (*uint256.Int, error)    { return c.collected.Get() }
func (c *Collection) PaymentToken() (thor.Address, error) { return c.paymentToken.Get() }
func (c *Collection) Owner() (thor.Address, error)        { return c.gate.Owner() }

// TotalSupply is the number of tokens in existence.
func (c *Collection) TotalSupply() (uint64, error) {
	return c.all.Len()
}

func (c *Collection) BalanceOf(owner thor.Address) (uint64, error) {
	if owner.IsZero() {
		return 0, reverts.New(reverts.KindInvalidAddress, "Invalid owner address")
	}
	return c.owned(owner).Len()
}

// OwnerOf fails with NonexistentToken for ids never minted or burned.
func (c *Collection) OwnerOf(id *uint256.Int) (thor.Address, error) {
	owner, err := c.owners.Get(idKey(id))
	if err != nil {
		return thor.Address{}, err
	}
	if owner.IsZero() {
		return thor.Address{}, reverts.New(reverts.KindNonexistentToken, "Nonexistent token "+id.Dec())
	}
	return owner, nil
}

// TokenURI joins the base uri and the token's own uri.
func (c *Collection) TokenURI(id *uint256.Int) (string, error) {
	if _, err := c.OwnerOf(id); err != nil {
		return "", err
	}
	uri, err := c.uris.Get(idKey(id))
	if err != nil {
		return "", err
	}
	base, err := c.baseURI.Get()
	if err != nil {
		return "", err
	}
	return base + uri, nil
}

func (c *Collection) TokenByIndex(index uint64) (*uint256.Int, error) {
	id, err := c.all.At(index)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, reverts.New(reverts.KindInvalidAmount, "Index out of bounds")
	}
	return id, nil
}

func (c *Collection) TokenOfOwnerByIndex(owner thor.Address, index uint64) (*uint256.Int, error) {
	id, err := c.owned(owner).At(index)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, reverts.New(reverts.KindInvalidAmount, "Owner index out of bounds")
	}
	return id, nil
}

func (c *Collection) GetApproved(id *uint256.Int) (thor.Address, error) {
	if _, err := c.OwnerOf(id); err != nil {
		return thor.Address{}, err
	}
	return c.approvals.Get(idKey(id))
}

func (c *Collection) IsApprovedForAll(owner, operator thor.Address) (bool, error) {
	return c.operators.Get(operatorKey(owner, operator))
}

//
// Setters - state change
//

// Mint creates the next token for to. Owner only.
func (c *Collection) Mint(caller, to thor.Address, uri string) (*uint256.Int, error) {
	logger.Debug("minting", "caller", caller, "to", to)

	var id *uint256.Int
	err := c.sctx.Atomic(func() (err error) {
		if err := c.gate.Guard(caller, gate.RoleOwner); err != nil {
			return err
		}
		id, err = c.mint(to, uri)
		return err
	})
	if err != nil {
		logger.Info("mint failed", "to", to, "error", err)
		return nil, err
	}
	return id, nil
}

// MintPublic mints the next token for the caller, who pays payment in the
// payment token. payment must cover the mint price and is collected in full.
func (c *Collection) MintPublic(caller thor.Address, uri string, payment *uint256.Int) (*uint256.Int, error) {
	logger.Debug("public minting", "caller", caller, "payment", payment)

	var id *uint256.Int
	err := c.sctx.Atomic(func() (err error) {
		price, err := c.mintPrice.Get()
		if err != nil {
			return err
		}
		if payment.Lt(price) {
			return reverts.NewAmount(reverts.KindInsufficientBalance, "Insufficient funds to mint", price, payment)
		}
		if id, err = c.mint(caller, uri); err != nil {
			return err
		}
		if payment.IsZero() {
			return nil
		}
		if _, err := c.collected.Add(payment); err != nil {
			return err
		}
		token, err := c.resolveToken()
		if err != nil {
			return err
		}
		return token.TransferFrom(c.sctx.Address(), caller, c.sctx.Address(), payment)
	})
	if err != nil {
		logger.Info("public mint failed", "caller", caller, "error", err)
		return nil, err
	}
	return id, nil
}

func (c *Collection) resolveToken() (PaymentToken, error) {
	addr, err := c.paymentToken.Get()
	if err != nil {
		return nil, err
	}
	if addr.IsZero() || c.tokenOf == nil {
		return nil, reverts.New(reverts.KindUnknownContract, "Payment token not set")
	}
	return c.tokenOf(addr)
}

func (c *Collection) mint(to thor.Address, uri string) (*uint256.Int, error) {
	if to.IsZero() {
		return nil, reverts.New(reverts.KindInvalidRecipient, "Invalid Recipient")
	}
	id, err := c.lastID.Add(uint256.NewInt(1))
	if err != nil {
		return nil, err
	}
	if err := c.owners.Set(idKey(id), to); err != nil {
		return nil, err
	}
	if uri != "" {
		if err := c.uris.Set(idKey(id), uri); err != nil {
			return nil, err
		}
	}
	if err := c.all.Push(id); err != nil {
		return nil, err
	}
	if err := c.owned(to).Push(id); err != nil {
		return nil, err
	}
	c.sctx.Emit("Transfer", "from", thor.Address{}, "to", to, "tokenId", id)
	return id, nil
}

func (c *Collection) SetMintPrice(caller thor.Address, price *uint256.Int) error {
	return c.sctx.Atomic(func() error {
		if err := c.gate.Guard(caller, gate.RoleOwner); err != nil {
			return err
		}
		c.mintPrice.Set(price)
		c.sctx.Emit("MintPriceUpdated", "price", price)
		return nil
	})
}

func (c *Collection) SetBaseURI(caller thor.Address, uri string) error {
	return c.sctx.Atomic(func() error {
		if err := c.gate.Guard(caller, gate.RoleOwner); err != nil {
			return err
		}
		return c.baseURI.Set(uri)
	})
}

// Approve lets to move id on behalf of its owner. The owner or one of its
// operators may call it.
func (c *Collection) Approve(caller, to thor.Address, id *uint256.Int) error {
	return c.sctx.Atomic(func() error {
		owner, err := c.OwnerOf(id)
		if err != nil {
			return err
		}
		if caller != owner {
			isOperator, err := c.IsApprovedForAll(owner, caller)
			if err != nil {
				return err
			}
			if !isOperator {
				return reverts.New(reverts.KindUnauthorized, "Invalid approver")
			}
		}
		if err := c.approvals.Set(idKey(id), to); err != nil {
			return err
		}
		c.sctx.Emit("Approval", "owner", owner, "approved", to, "tokenId", id)
		return nil
	})
}

func (c *Collection) SetApprovalForAll(caller, operator thor.Address, approved bool) error {
	return c.sctx.Atomic(func() error {
		if operator.IsZero() {
			return reverts.New(reverts.KindInvalidAddress, "Invalid operator")
		}
		if err := c.operators.Set(operatorKey(caller, operator), approved); err != nil {
			return err
		}
		c.sctx.Emit("ApprovalForAll", "owner", caller, "operator", operator, "approved", approved)
		return nil
	})
}

func (c *Collection) isAuthorized(caller, owner thor.Address, id *uint256.Int) (bool, error) {
	if caller == owner {
		return true, nil
	}
	isOperator, err := c.IsApprovedForAll(owner, caller)
	if err != nil || isOperator {
		return isOperator, err
	}
	approved, err := c.approvals.Get(idKey(id))
	if err != nil {
		return false, err
	}
	return approved == caller, nil
}

// TransferFrom moves id from from to to. The caller must be the owner, an
// operator of the owner or approved for id.
func (c *Collection) TransferFrom(caller, from, to thor.Address, id *uint256.Int) error {
	return c.sctx.Atomic(func() error {
		if to.IsZero() {
			return reverts.New(reverts.KindInvalidRecipient, "Invalid Recipient")
		}
		owner, err := c.OwnerOf(id)
		if err != nil {
			return err
		}
		if owner != from {
			return reverts.New(reverts.KindUnauthorized, "Incorrect owner")
		}
		ok, err := c.isAuthorized(caller, owner, id)
		if err != nil {
			return err
		}
		if !ok {
			return reverts.New(reverts.KindUnauthorized, "Insufficient approval")
		}

		c.approvals.Delete(idKey(id))
		if err := c.owned(from).Remove(id); err != nil {
			return err
		}
		if err := c.owned(to).Push(id); err != nil {
			return err
		}
		if err := c.owners.Set(idKey(id), to); err != nil {
			return err
		}
		c.sctx.Emit("Transfer", "from", from, "to", to, "tokenId", id)
		return nil
	})
}

// Burn destroys id. Same authorization as TransferFrom.
func (c *Collection) Burn(caller thor.Address, id *uint256.Int) error {
	return c.sctx.Atomic(func() error {
		owner, err := c.OwnerOf(id)
		if err != nil {
			return err
		}
		ok, err := c.isAuthorized(caller, owner, id)
		if err != nil {
			return err
		}
		if !ok {
			return reverts.New(reverts.KindUnauthorized, "Insufficient approval")
		}

		c.approvals.Delete(idKey(id))
		c.uris.Delete(idKey(id))
		c.owners.Delete(idKey(id))
		if err := c.owned(owner).Remove(id); err != nil {
			return err
		}
		if err := c.all.Remove(id); err != nil {
			return err
		}
		c.sctx.Emit("Transfer", "from", owner, "to", thor.Address{}, "tokenId", id)
		return nil
	})
}

// Withdraw sends every collected payment to the owner.
func (c *Collection) Withdraw(caller thor.Address) error {
	err := c.sctx.Atomic(func() error {
		if err := c.gate.Guard(caller, gate.RoleOwner); err != nil {
			return err
		}
		amount, err := c.collected.Get()
		if err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.New(reverts.KindInsufficientBalance, "No funds to withdraw")
		}
		c.collected.Set(new(uint256.Int))
		token, err := c.resolveToken()
		if err != nil {
			return err
		}
		if err := token.Transfer(c.sctx.Address(), caller, amount); err != nil {
			return err
		}
		c.sctx.Emit("FundsWithdrawn", "to", caller, "amount", amount)
		return nil
	})
	if err != nil {
		logger.Info("withdraw failed", "error", err)
	}
	return err
}

func (c *Collection) TransferOwnership(caller, newOwner thor.Address) error {
	return c.gate.TransferOwnership(caller, newOwner)
}
