// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"sort"

	"github.com/holiman/uint256"

	"github.com/vechain/incentive/thor"
)

type contractAndMethod struct {
	contract string
	method   string
}

var nativeMethods = make(map[contractAndMethod]*Method)

// FindMethod looks up a method by contract and method name.
func FindMethod(contractName, methodName string) (*Method, bool) {
	m, ok := nativeMethods[contractAndMethod{contractName, methodName}]
	return m, ok
}

// Methods returns every registered method ordered by contract and name.
func Methods() []*Method {
	all := make([]*Method, 0, len(nativeMethods))
	for _, m := range nativeMethods {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].contract.name != all[j].contract.name {
			return all[i].contract.name < all[j].contract.name
		}
		return all[i].name < all[j].name
	})
	return all
}

type (
	addrArg struct {
		Addr thor.Address `json:"addr"`
	}
	userArg struct {
		User thor.Address `json:"user"`
	}
	ownerArg struct {
		Owner thor.Address `json:"owner"`
	}
	amountArg struct {
		Amount uint256.Int `json:"amount"`
	}
	toAmountArgs struct {
		To     thor.Address `json:"to"`
		Amount uint256.Int  `json:"amount"`
	}
	tokenIDArg struct {
		TokenID uint256.Int `json:"tokenId"`
	}
	tokenIDsArg struct {
		TokenIDs []uint256.Int `json:"tokenIds"`
	}
	rateArg struct {
		Rate uint256.Int `json:"rate"`
	}
	pausedArg struct {
		Paused bool `json:"paused"`
	}
	newOwnerArg struct {
		NewOwner thor.Address `json:"newOwner"`
	}
	uriArg struct {
		URI string `json:"uri"`
	}
)

func ptrs(ids []uint256.Int) []*uint256.Int {
	out := make([]*uint256.Int, len(ids))
	for i := range ids {
		out[i] = &ids[i]
	}
	return out
}

func init() {
	methods := []*Method{
		Token.impl("version", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).Version(), nil
		}),
		Token.impl("name", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).Name()
		}),
		Token.impl("symbol", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).Symbol()
		}),
		Token.impl("decimals", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).Decimals(), nil
		}),
		Token.impl("totalSupply", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).TotalSupply()
		}),
		Token.impl("maxSupply", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).MaxSupply(), nil
		}),
		Token.impl("owner", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).Owner()
		}),
		Token.impl("paused", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).Paused()
		}),
		Token.impl("authorizedMinter", true, func(env *env) (any, error) {
			return Token.Native(env.Environment).AuthorizedMinter()
		}),
		Token.impl("balanceOf", true, func(env *env) (any, error) {
			var args ownerArg
			env.Args(&args)
			return Token.Native(env.Environment).BalanceOf(args.Owner)
		}),
		Token.impl("allowance", true, func(env *env) (any, error) {
			var args struct {
				Owner   thor.Address `json:"owner"`
				Spender thor.Address `json:"spender"`
			}
			env.Args(&args)
			return Token.Native(env.Environment).Allowance(args.Owner, args.Spender)
		}),
		Token.impl("mint", false, func(env *env) (any, error) {
			var args toAmountArgs
			env.Args(&args)
			return nil, Token.Native(env.Environment).Mint(env.Caller, args.To, &args.Amount)
		}),
		Token.impl("burn", false, func(env *env) (any, error) {
			var args amountArg
			env.Args(&args)
			return nil, Token.Native(env.Environment).Burn(env.Caller, &args.Amount)
		}),
		Token.impl("transfer", false, func(env *env) (any, error) {
			var args toAmountArgs
			env.Args(&args)
			return nil, Token.Native(env.Environment).Transfer(env.Caller, args.To, &args.Amount)
		}),
		Token.impl("approve", false, func(env *env) (any, error) {
			var args struct {
				Spender thor.Address `json:"spender"`
				Amount  uint256.Int  `json:"amount"`
			}
			env.Args(&args)
			return nil, Token.Native(env.Environment).Approve(env.Caller, args.Spender, &args.Amount)
		}),
		Token.impl("transferFrom", false, func(env *env) (any, error) {
			var args struct {
				From   thor.Address `json:"from"`
				To     thor.Address `json:"to"`
				Amount uint256.Int  `json:"amount"`
			}
			env.Args(&args)
			return nil, Token.Native(env.Environment).TransferFrom(env.Caller, args.From, args.To, &args.Amount)
		}),
		Token.impl("setAuthorizedMinter", false, func(env *env) (any, error) {
			var args struct {
				Minter thor.Address `json:"minter"`
			}
			env.Args(&args)
			return nil, Token.Native(env.Environment).SetAuthorizedMinter(env.Caller, args.Minter)
		}),
		Token.impl("pause", false, func(env *env) (any, error) {
			return nil, Token.Native(env.Environment).Pause(env.Caller)
		}),
		Token.impl("unpause", false, func(env *env) (any, error) {
			return nil, Token.Native(env.Environment).Unpause(env.Caller)
		}),
		Token.impl("transferOwnership", false, func(env *env) (any, error) {
			var args newOwnerArg
			env.Args(&args)
			return nil, Token.Native(env.Environment).TransferOwnership(env.Caller, args.NewOwner)
		}),

		Collection.impl("version", true, func(env *env) (any, error) {
			return Collection.Native(env.Environment).Version(), nil
		}),
		Collection.impl("name", true, func(env *env) (any, error) {
			return Collection.Native(env.Environment).Name()
		}),
		Collection.impl("symbol", true, func(env *env) (any, error) {
			return Collection.Native(env.Environment).Symbol()
		}),
		Collection.impl("owner", true, func(env *env) (any, error) {
			return Collection.Native(env.Environment).Owner()
		}),
		Collection.impl("baseURI", true, func(env *env) (any, error) {
			return Collection.Native(env.Environment).BaseURI()
		}),
		Collection.impl("mintPrice", true, func(env *env) (any, error) {
			return Collection.Native(env.Environment).MintPrice()
		}),
		Collection.impl("collected", true, func(env *env) (any, error) {
			return Collection.Native(env.Environment).Collected()
		}),
		Collection.impl("totalSupply", true, func(env *env) (any, error) {
			return Collection.Native(env.Environment).TotalSupply()
		}),
		Collection.impl("balanceOf", true, func(env *env) (any, error) {
			var args ownerArg
			env.Args(&args)
			return Collection.Native(env.Environment).BalanceOf(args.Owner)
		}),
		Collection.impl("ownerOf", true, func(env *env) (any, error) {
			var args tokenIDArg
			env.Args(&args)
			return Collection.Native(env.Environment).OwnerOf(&args.TokenID)
		}),
		Collection.impl("tokenURI", true, func(env *env) (any, error) {
			var args tokenIDArg
			env.Args(&args)
			return Collection.Native(env.Environment).TokenURI(&args.TokenID)
		}),
		Collection.impl("getApproved", true, func(env *env) (any, error) {
			var args tokenIDArg
			env.Args(&args)
			return Collection.Native(env.Environment).GetApproved(&args.TokenID)
		}),
		Collection.impl("tokenByIndex", true, func(env *env) (any, error) {
			var args struct {
				Index uint64 `json:"index,string"`
			}
			env.Args(&args)
			return Collection.Native(env.Environment).TokenByIndex(args.Index)
		}),
		Collection.impl("tokenOfOwnerByIndex", true, func(env *env) (any, error) {
			var args struct {
				Owner thor.Address `json:"owner"`
				Index uint64       `json:"index,string"`
			}
			env.Args(&args)
			return Collection.Native(env.Environment).TokenOfOwnerByIndex(args.Owner, args.Index)
		}),
		Collection.impl("isApprovedForAll", true, func(env *env) (any, error) {
			var args struct {
				Owner    thor.Address `json:"owner"`
				Operator thor.Address `json:"operator"`
			}
			env.Args(&args)
			return Collection.Native(env.Environment).IsApprovedForAll(args.Owner, args.Operator)
		}),
		Collection.impl("mint", false, func(env *env) (any, error) {
			var args struct {
				To  thor.Address `json:"to"`
				URI string       `json:"uri"`
			}
			env.Args(&args)
			return Collection.Native(env.Environment).Mint(env.Caller, args.To, args.URI)
		}),
		Collection.impl("mintPublic", false, func(env *env) (any, error) {
			var args struct {
				URI     string      `json:"uri"`
				Payment uint256.Int `json:"payment"`
			}
			env.Args(&args)
			return Collection.Native(env.Environment).MintPublic(env.Caller, args.URI, &args.Payment)
		}),
		Collection.impl("setMintPrice", false, func(env *env) (any, error) {
			var args struct {
				Price uint256.Int `json:"price"`
			}
			env.Args(&args)
			return nil, Collection.Native(env.Environment).SetMintPrice(env.Caller, &args.Price)
		}),
		Collection.impl("setBaseURI", false, func(env *env) (any, error) {
			var args uriArg
			env.Args(&args)
			return nil, Collection.Native(env.Environment).SetBaseURI(env.Caller, args.URI)
		}),
		Collection.impl("approve", false, func(env *env) (any, error) {
			var args struct {
				To      thor.Address `json:"to"`
				TokenID uint256.Int  `json:"tokenId"`
			}
			env.Args(&args)
			return nil, Collection.Native(env.Environment).Approve(env.Caller, args.To, &args.TokenID)
		}),
		Collection.impl("setApprovalForAll", false, func(env *env) (any, error) {
			var args struct {
				Operator thor.Address `json:"operator"`
				Approved bool         `json:"approved"`
			}
			env.Args(&args)
			return nil, Collection.Native(env.Environment).SetApprovalForAll(env.Caller, args.Operator, args.Approved)
		}),
		Collection.impl("transferFrom", false, func(env *env) (any, error) {
			var args struct {
				From    thor.Address `json:"from"`
				To      thor.Address `json:"to"`
				TokenID uint256.Int  `json:"tokenId"`
			}
			env.Args(&args)
			return nil, Collection.Native(env.Environment).TransferFrom(env.Caller, args.From, args.To, &args.TokenID)
		}),
		Collection.impl("burn", false, func(env *env) (any, error) {
			var args tokenIDArg
			env.Args(&args)
			return nil, Collection.Native(env.Environment).Burn(env.Caller, &args.TokenID)
		}),
		Collection.impl("withdraw", false, func(env *env) (any, error) {
			return nil, Collection.Native(env.Environment).Withdraw(env.Caller)
		}),
		Collection.impl("transferOwnership", false, func(env *env) (any, error) {
			var args newOwnerArg
			env.Args(&args)
			return nil, Collection.Native(env.Environment).TransferOwnership(env.Caller, args.NewOwner)
		}),

		Staking.impl("version", true, func(env *env) (any, error) {
			return Staking.Native(env.Environment).Version(), nil
		}),
		Staking.impl("owner", true, func(env *env) (any, error) {
			return Staking.Native(env.Environment).Owner()
		}),
		Staking.impl("paused", true, func(env *env) (any, error) {
			return Staking.Native(env.Environment).Paused()
		}),
		Staking.impl("rewardRate", true, func(env *env) (any, error) {
			return Staking.Native(env.Environment).RewardRate()
		}),
		Staking.impl("totalStaked", true, func(env *env) (any, error) {
			return Staking.Native(env.Environment).TotalStaked()
		}),
		Staking.impl("nftCollection", true, func(env *env) (any, error) {
			return Staking.Native(env.Environment).NFTCollection()
		}),
		Staking.impl("rewardToken", true, func(env *env) (any, error) {
			return Staking.Native(env.Environment).RewardToken()
		}),
		Staking.impl("stakerOf", true, func(env *env) (any, error) {
			var args tokenIDArg
			env.Args(&args)
			return Staking.Native(env.Environment).StakerOf(&args.TokenID)
		}),
		Staking.impl("getUserStakeInfo", true, func(env *env) (any, error) {
			var args userArg
			env.Args(&args)
			return Staking.Native(env.Environment).GetUserStakeInfo(args.User)
		}),
		Staking.impl("calculateRewards", true, func(env *env) (any, error) {
			var args userArg
			env.Args(&args)
			return Staking.Native(env.Environment).CalculateRewards(args.User)
		}),
		Staking.impl("stake", false, func(env *env) (any, error) {
			var args tokenIDsArg
			env.Args(&args)
			return nil, Staking.Native(env.Environment).Stake(env.Caller, ptrs(args.TokenIDs))
		}),
		Staking.impl("withdraw", false, func(env *env) (any, error) {
			var args tokenIDsArg
			env.Args(&args)
			return nil, Staking.Native(env.Environment).Withdraw(env.Caller, ptrs(args.TokenIDs))
		}),
		Staking.impl("emergencyUnstake", false, func(env *env) (any, error) {
			var args tokenIDsArg
			env.Args(&args)
			return nil, Staking.Native(env.Environment).EmergencyUnstake(env.Caller, ptrs(args.TokenIDs))
		}),
		Staking.impl("claimRewards", false, func(env *env) (any, error) {
			return Staking.Native(env.Environment).ClaimRewards(env.Caller)
		}),
		Staking.impl("setRewardRate", false, func(env *env) (any, error) {
			var args rateArg
			env.Args(&args)
			return nil, Staking.Native(env.Environment).SetRewardRate(env.Caller, &args.Rate)
		}),
		Staking.impl("setPaused", false, func(env *env) (any, error) {
			var args pausedArg
			env.Args(&args)
			return nil, Staking.Native(env.Environment).SetPaused(env.Caller, args.Paused)
		}),
		Staking.impl("setNFTCollection", false, func(env *env) (any, error) {
			var args addrArg
			env.Args(&args)
			return nil, Staking.Native(env.Environment).SetNFTCollection(env.Caller, args.Addr)
		}),
		Staking.impl("setRewardToken", false, func(env *env) (any, error) {
			var args addrArg
			env.Args(&args)
			return nil, Staking.Native(env.Environment).SetRewardToken(env.Caller, args.Addr)
		}),
		Staking.impl("transferOwnership", false, func(env *env) (any, error) {
			var args newOwnerArg
			env.Args(&args)
			return nil, Staking.Native(env.Environment).TransferOwnership(env.Caller, args.NewOwner)
		}),

		Pool.impl("version", true, func(env *env) (any, error) {
			return Pool.Native(env.Environment).Version(), nil
		}),
		Pool.impl("owner", true, func(env *env) (any, error) {
			return Pool.Native(env.Environment).Owner()
		}),
		Pool.impl("paused", true, func(env *env) (any, error) {
			return Pool.Native(env.Environment).Paused()
		}),
		Pool.impl("token", true, func(env *env) (any, error) {
			return Pool.Native(env.Environment).Token()
		}),
		Pool.impl("rewardRate", true, func(env *env) (any, error) {
			return Pool.Native(env.Environment).RewardRate()
		}),
		Pool.impl("totalStaked", true, func(env *env) (any, error) {
			return Pool.Native(env.Environment).TotalStaked()
		}),
		Pool.impl("userStaked", true, func(env *env) (any, error) {
			var args userArg
			env.Args(&args)
			return Pool.Native(env.Environment).UserStaked(args.User)
		}),
		Pool.impl("stakeTimestamp", true, func(env *env) (any, error) {
			var args userArg
			env.Args(&args)
			return Pool.Native(env.Environment).StakeTimestamp(args.User)
		}),
		Pool.impl("calculateRewards", true, func(env *env) (any, error) {
			var args userArg
			env.Args(&args)
			return Pool.Native(env.Environment).CalculateRewards(args.User)
		}),
		Pool.impl("rewardsOf", true, func(env *env) (any, error) {
			var args userArg
			env.Args(&args)
			return Pool.Native(env.Environment).RewardsOf(args.User)
		}),
		Pool.impl("stake", false, func(env *env) (any, error) {
			var args amountArg
			env.Args(&args)
			return nil, Pool.Native(env.Environment).Stake(env.Caller, &args.Amount)
		}),
		Pool.impl("unstake", false, func(env *env) (any, error) {
			var args amountArg
			env.Args(&args)
			return nil, Pool.Native(env.Environment).Unstake(env.Caller, &args.Amount)
		}),
		Pool.impl("claimRewards", false, func(env *env) (any, error) {
			return Pool.Native(env.Environment).ClaimRewards(env.Caller)
		}),
		Pool.impl("setRewardRate", false, func(env *env) (any, error) {
			var args rateArg
			env.Args(&args)
			return nil, Pool.Native(env.Environment).SetRewardRate(env.Caller, &args.Rate)
		}),
		Pool.impl("setPaused", false, func(env *env) (any, error) {
			var args pausedArg
			env.Args(&args)
			return nil, Pool.Native(env.Environment).SetPaused(env.Caller, args.Paused)
		}),
		Pool.impl("transferOwnership", false, func(env *env) (any, error) {
			var args newOwnerArg
			env.Args(&args)
			return nil, Pool.Native(env.Environment).TransferOwnership(env.Caller, args.NewOwner)
		}),

		Vault.impl("version", true, func(env *env) (any, error) {
			return Vault.Native(env.Environment).Version(), nil
		}),
		Vault.impl("owner", true, func(env *env) (any, error) {
			return Vault.Native(env.Environment).Owner()
		}),
		Vault.impl("paused", true, func(env *env) (any, error) {
			return Vault.Native(env.Environment).Paused()
		}),
		Vault.impl("rewardToken", true, func(env *env) (any, error) {
			return Vault.Native(env.Environment).RewardToken()
		}),
		Vault.impl("getBalance", true, func(env *env) (any, error) {
			return Vault.Native(env.Environment).GetBalance()
		}),
		Vault.impl("depositFunds", false, func(env *env) (any, error) {
			var args amountArg
			env.Args(&args)
			return nil, Vault.Native(env.Environment).DepositFunds(env.Caller, &args.Amount)
		}),
		Vault.impl("sendReward", false, func(env *env) (any, error) {
			var args toAmountArgs
			env.Args(&args)
			return nil, Vault.Native(env.Environment).SendReward(env.Caller, args.To, &args.Amount)
		}),
		Vault.impl("withdraw", false, func(env *env) (any, error) {
			var args toAmountArgs
			env.Args(&args)
			return nil, Vault.Native(env.Environment).Withdraw(env.Caller, args.To, &args.Amount)
		}),
		Vault.impl("pause", false, func(env *env) (any, error) {
			return nil, Vault.Native(env.Environment).Pause(env.Caller)
		}),
		Vault.impl("unpause", false, func(env *env) (any, error) {
			return nil, Vault.Native(env.Environment).Unpause(env.Caller)
		}),
		Vault.impl("transferOwnership", false, func(env *env) (any, error) {
			var args newOwnerArg
			env.Args(&args)
			return nil, Vault.Native(env.Environment).TransferOwnership(env.Caller, args.NewOwner)
		}),
	}
	for _, m := range methods {
		key := contractAndMethod{m.contract.name, m.name}
		if _, dup := nativeMethods[key]; dup {
			panic("duplicated method " + m.contract.name + "." + m.name)
		}
		nativeMethods[key] = m
	}
}
