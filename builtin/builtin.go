// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/incentive/builtin/collection"
	"github.com/vechain/incentive/builtin/pool"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/builtin/staking"
	"github.com/vechain/incentive/builtin/token"
	"github.com/vechain/incentive/builtin/vault"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

// Builtin contracts binding.
var (
	Token      = &tokenContract{newContract("token", "RewardToken")}
	Collection = &collectionContract{newContract("collection", "MyNFT")}
	Staking    = &stakingContract{newContract("staking", "StakingManager")}
	Pool       = &poolContract{newContract("pool", "NFTStaking")}
	Vault      = &vaultContract{newContract("vault", "TreasuryVault")}
)

type (
	tokenContract      struct{ *contract }
	collectionContract struct{ *contract }
	stakingContract    struct{ *contract }
	poolContract       struct{ *contract }
	vaultContract      struct{ *contract }
)

func (t *tokenContract) Native(env *xenv.Environment) *token.Token {
	return token.New(t.Address, env)
}

func (c *collectionContract) Native(env *xenv.Environment) *collection.Collection {
	return collection.New(c.Address, env, func(addr thor.Address) (collection.PaymentToken, error) {
		tok, err := resolveToken(env, addr)
		if err != nil {
			return nil, err
		}
		return tok, nil
	})
}

func (s *stakingContract) Native(env *xenv.Environment) *staking.Staking {
	return staking.New(s.Address, env, &resolver{env})
}

func (p *poolContract) Native(env *xenv.Environment) *pool.Pool {
	return pool.New(p.Address, env, func(addr thor.Address) (pool.FungibleToken, error) {
		tok, err := resolveToken(env, addr)
		if err != nil {
			return nil, err
		}
		return tok, nil
	})
}

func (v *vaultContract) Native(env *xenv.Environment) *vault.Vault {
	return vault.New(v.Address, env, func(addr thor.Address) (vault.FungibleToken, error) {
		tok, err := resolveToken(env, addr)
		if err != nil {
			return nil, err
		}
		return tok, nil
	})
}

// Contracts lists every builtin.
func Contracts() []*contract {
	return []*contract{Token.contract, Collection.contract, Staking.contract, Pool.contract, Vault.contract}
}

func resolveToken(env *xenv.Environment, addr thor.Address) (*token.Token, error) {
	if addr != Token.Address {
		return nil, reverts.New(reverts.KindUnknownContract, "Unknown token "+addr.String())
	}
	return Token.Native(env), nil
}

// resolver binds collaborator addresses stored by the stake registry.
type resolver struct {
	env *xenv.Environment
}

func (r *resolver) AssetRegistry(addr thor.Address) (staking.AssetRegistry, error) {
	if addr != Collection.Address {
		return nil, reverts.New(reverts.KindUnknownContract, "Unknown collection "+addr.String())
	}
	return Collection.Native(r.env), nil
}

func (r *resolver) RewardMinter(addr thor.Address) (staking.RewardMinter, error) {
	tok, err := resolveToken(r.env, addr)
	if err != nil {
		return nil, err
	}
	return tok, nil
}
