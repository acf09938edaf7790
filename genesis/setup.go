// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/incentive/builtin"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

func rateOrDefault(a *Amount) *uint256.Int {
	if a == nil {
		return thor.DefaultRewardRate
	}
	return a.Int()
}

// setupBuiltins initializes every builtin and authorizes the stake
// registry as the only minter of the reward token.
func setupBuiltins(env *xenv.Environment, cfg *Config) error {
	supply := cfg.Token.InitialSupply.Int()
	if supply == nil {
		supply = thor.InitialTokenSupply
	}

	tok := builtin.Token.Native(env)
	if err := tok.Initialize(cfg.Owner, cfg.Token.Name, cfg.Token.Symbol, supply); err != nil {
		return errors.WithMessage(err, "token")
	}

	coll := builtin.Collection.Native(env)
	name, symbol := cfg.Collection.Name, cfg.Collection.Symbol
	if name == "" {
		name = "MyNFT"
	}
	if symbol == "" {
		symbol = "MNFT"
	}
	if err := coll.Initialize(cfg.Owner, name, symbol, builtin.Token.Address); err != nil {
		return errors.WithMessage(err, "collection")
	}
	if cfg.Collection.BaseURI != "" {
		if err := coll.SetBaseURI(cfg.Owner, cfg.Collection.BaseURI); err != nil {
			return errors.WithMessage(err, "collection")
		}
	}
	if price := cfg.Collection.MintPrice.Int(); price != nil {
		if err := coll.SetMintPrice(cfg.Owner, price); err != nil {
			return errors.WithMessage(err, "collection")
		}
	}

	stk := builtin.Staking.Native(env)
	if err := stk.Initialize(cfg.Owner, builtin.Collection.Address, builtin.Token.Address, rateOrDefault(cfg.Staking.RewardRate)); err != nil {
		return errors.WithMessage(err, "staking")
	}
	if err := tok.SetAuthorizedMinter(cfg.Owner, builtin.Staking.Address); err != nil {
		return errors.WithMessage(err, "token")
	}

	poolToken := builtin.Token.Address
	if cfg.Pool.Bookkeeping {
		poolToken = thor.Address{}
	}
	if err := builtin.Pool.Native(env).Initialize(cfg.Owner, poolToken, rateOrDefault(cfg.Pool.RewardRate)); err != nil {
		return errors.WithMessage(err, "pool")
	}

	vlt := builtin.Vault.Native(env)
	if err := vlt.Initialize(cfg.Owner, builtin.Token.Address); err != nil {
		return errors.WithMessage(err, "vault")
	}
	if funding := cfg.Vault.Funding.Int(); funding != nil && !funding.IsZero() {
		if err := tok.Approve(cfg.Owner, builtin.Vault.Address, funding); err != nil {
			return errors.WithMessage(err, "vault")
		}
		if err := vlt.DepositFunds(cfg.Owner, funding); err != nil {
			return errors.WithMessage(err, "vault")
		}
	}
	return nil
}

// allocAccounts moves balances out of the owner's initial supply and mints
// the listed assets.
func allocAccounts(env *xenv.Environment, cfg *Config) error {
	tok := builtin.Token.Native(env)
	coll := builtin.Collection.Native(env)

	for _, acc := range cfg.Accounts {
		if bal := acc.Balance.Int(); bal != nil && !bal.IsZero() {
			if err := tok.Transfer(cfg.Owner, acc.Address, bal); err != nil {
				return errors.WithMessagef(err, "account %v", acc.Address)
			}
		}
		for _, uri := range acc.Assets {
			if _, err := coll.Mint(cfg.Owner, acc.Address, uri); err != nil {
				return errors.WithMessagef(err, "account %v", acc.Address)
			}
		}
	}
	return nil
}
