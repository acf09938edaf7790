// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gate holds the owner, minter and pause slots shared by every builtin.
package gate

import (
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/builtin/solidity"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/thor"
)

var logger = log.WithContext("pkg", "gate")

// Role is the capability a caller must hold.
type Role uint8

const (
	RoleAny Role = iota
	RoleOwner
	RoleMinter
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleMinter:
		return "minter"
	default:
		return "any"
	}
}

var (
	slotOwner       = solidity.Slot("gate.owner")
	slotMinter      = solidity.Slot("gate.authorized-minter")
	slotPaused      = solidity.Slot("gate.paused")
	slotInitialized = solidity.Slot("gate.initialized")
)

// Gate guards the entrypoints of one builtin instance.
type Gate struct {
	sctx        *solidity.Context
	owner       *solidity.Address
	minter      *solidity.Address
	paused      *solidity.Bool
	initialized *solidity.Bool

	pausedMsg string
}

// New binds a gate to the storage of the contract in sctx.
// pausedMsg is the message callers see when blocked by the pause flag.
func New(sctx *solidity.Context, pausedMsg string) *Gate {
	if pausedMsg == "" {
		pausedMsg = "Contract is paused"
	}
	return &Gate{
		sctx:        sctx,
		owner:       solidity.NewAddress(sctx, slotOwner),
		minter:      solidity.NewAddress(sctx, slotMinter),
		paused:      solidity.NewBool(sctx, slotPaused),
		initialized: solidity.NewBool(sctx, slotInitialized),
		pausedMsg:   pausedMsg,
	}
}

// Initialize sets the owner. It succeeds exactly once per contract.
func (g *Gate) Initialize(owner thor.Address) error {
	done, err := g.initialized.Get()
	if err != nil {
		return err
	}
	if done {
		return reverts.New(reverts.KindAlreadyInitialized, "Already initialized")
	}
	if owner.IsZero() {
		return reverts.New(reverts.KindInvalidAddress, "Invalid owner address")
	}
	g.initialized.Set(true)
	g.owner.Set(owner)
	g.sctx.Emit("OwnershipTransferred", "previousOwner", thor.Address{}, "newOwner", owner)
	return nil
}

func (g *Gate) Initialized() (bool, error) {
	return g.initialized.Get()
}

func (g *Gate) Owner() (thor.Address, error) {
	return g.owner.Get()
}

// AuthorizedMinter returns the zero address while unset.
func (g *Gate) AuthorizedMinter() (thor.Address, error) {
	return g.minter.Get()
}

func (g *Gate) Paused() (bool, error) {
	return g.paused.Get()
}

// Guard fails with Unauthorized unless caller holds role.
func (g *Gate) Guard(caller thor.Address, role Role) error {
	var (
		holder thor.Address
		err    error
		msg    string
	)
	switch role {
	case RoleAny:
		return nil
	case RoleOwner:
		holder, err = g.owner.Get()
		msg = "Ownable: caller is not the owner"
	case RoleMinter:
		holder, err = g.minter.Get()
		msg = "Not Authorized"
	}
	if err != nil {
		return err
	}
	if holder.IsZero() || holder != caller {
		logger.Debug("unauthorized call", "contract", g.sctx.Address(), "caller", caller, "role", role)
		return reverts.New(reverts.KindUnauthorized, msg)
	}
	return nil
}

// RequireNotPaused fails with Paused while the pause flag is set.
func (g *Gate) RequireNotPaused() error {
	paused, err := g.paused.Get()
	if err != nil {
		return err
	}
	if paused {
		return reverts.New(reverts.KindPaused, g.pausedMsg)
	}
	return nil
}

// SetPaused sets the pause flag. Setting the current value again is a no-op.
func (g *Gate) SetPaused(caller thor.Address, paused bool) error {
	return g.sctx.Atomic(func() error {
		if err := g.Guard(caller, RoleOwner); err != nil {
			return err
		}
		current, err := g.paused.Get()
		if err != nil {
			return err
		}
		if current == paused {
			return nil
		}
		g.paused.Set(paused)
		if paused {
			g.sctx.Emit("Paused", "account", caller)
		} else {
			g.sctx.Emit("Unpaused", "account", caller)
		}
		logger.Info("pause flag changed", "contract", g.sctx.Address(), "paused", paused)
		return nil
	})
}

func (g *Gate) Pause(caller thor.Address) error {
	return g.SetPaused(caller, true)
}

func (g *Gate) Unpause(caller thor.Address) error {
	return g.SetPaused(caller, false)
}

// SetAuthorizedMinter replaces the single account allowed to mint.
func (g *Gate) SetAuthorizedMinter(caller, minter thor.Address) error {
	return g.sctx.Atomic(func() error {
		if err := g.Guard(caller, RoleOwner); err != nil {
			return err
		}
		if minter.IsZero() {
			return reverts.New(reverts.KindInvalidAddress, "Invalid manager address")
		}
		g.minter.Set(minter)
		g.sctx.Emit("MinterUpdated", "minter", minter)
		return nil
	})
}

// TransferOwnership hands the owner role to newOwner.
func (g *Gate) TransferOwnership(caller, newOwner thor.Address) error {
	return g.sctx.Atomic(func() error {
		if err := g.Guard(caller, RoleOwner); err != nil {
			return err
		}
		if newOwner.IsZero() {
			return reverts.New(reverts.KindInvalidAddress, "Ownable: new owner is the zero address")
		}
		g.owner.Set(newOwner)
		g.sctx.Emit("OwnershipTransferred", "previousOwner", caller, "newOwner", newOwner)
		return nil
	})
}
