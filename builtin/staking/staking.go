// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the stake registry. Users lock assets of the
// configured collection here and earn the reward token linearly over time.
package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/incentive/builtin/gate"
	"github.com/vechain/incentive/builtin/reverts"
	"github.com/vechain/incentive/builtin/solidity"
	"github.com/vechain/incentive/log"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

var logger = log.WithContext("pkg", "staking")

var (
	slotRewardRate    = solidity.Slot("staking.reward-rate")
	slotTotalStaked   = solidity.Slot("staking.total-staked")
	slotNFTCollection = solidity.Slot("staking.nft-collection")
	slotRewardToken   = solidity.Slot("staking.reward-token")
	slotRecords       = solidity.Slot("staking.records")
	slotStakerOf      = solidity.Slot("staking.staker-of")
)

// AssetRegistry is the collection whose assets are staked.
type AssetRegistry interface {
	OwnerOf(id *uint256.Int) (thor.Address, error)
	IsApprovedForAll(owner, operator thor.Address) (bool, error)
	TransferFrom(caller, from, to thor.Address, id *uint256.Int) error
}

// RewardMinter issues the reward token. The registry must be its authorized minter.
type RewardMinter interface {
	Mint(caller, to thor.Address, amount *uint256.Int) error
}

// Resolver binds the configured collaborator addresses to implementations.
type Resolver interface {
	AssetRegistry(addr thor.Address) (AssetRegistry, error)
	RewardMinter(addr thor.Address) (RewardMinter, error)
}

// Staking implements the stake registry and its reward accrual.
type Staking struct {
	sctx     *solidity.Context
	gate     *gate.Gate
	resolver Resolver

	rewardRate    *solidity.Uint256
	totalStaked   *solidity.Uint256
	nftCollection *solidity.Address
	rewardToken   *solidity.Address
	records       *solidity.Mapping[thor.Address, *StakeRecord]
	stakerOf      *solidity.Mapping[thor.Bytes32, thor.Address]
}

// New create a new instance.
func New(addr thor.Address, env *xenv.Environment, resolver Resolver) *Staking {
	sctx := solidity.NewContext(addr, env)
	return &Staking{
		sctx:          sctx,
		gate:          gate.New(sctx, "Contract is paused"),
		resolver:      resolver,
		rewardRate:    solidity.NewUint256(sctx, slotRewardRate),
		totalStaked:   solidity.NewUint256(sctx, slotTotalStaked),
		nftCollection: solidity.NewAddress(sctx, slotNFTCollection),
		rewardToken:   solidity.NewAddress(sctx, slotRewardToken),
		records:       solidity.NewMapping[thor.Address, *StakeRecord](sctx, slotRecords),
		stakerOf:      solidity.NewMapping[thor.Bytes32, thor.Address](sctx, slotStakerOf),
	}
}

func idKey(id *uint256.Int) thor.Bytes32 {
	return thor.Bytes32(id.Bytes32())
}

// Initialize sets the owner, collaborators and the reward rate. It runs once.
func (s *Staking) Initialize(owner, nftCollection, rewardToken thor.Address, rate *uint256.Int) error {
	return s.sctx.Atomic(func() error {
		if err := s.gate.Initialize(owner); err != nil {
			return err
		}
		if nftCollection.IsZero() || rewardToken.IsZero() {
			return reverts.New(reverts.KindInvalidAddress, "Invalid collaborator address")
		}
		s.nftCollection.Set(nftCollection)
		s.rewardToken.Set(rewardToken)
		s.rewardRate.Set(rate)
		return nil
	})
}

//
// Getters - no state change
//

func (s *Staking) Address() thor.Address                { return s.sctx.Address() }
func (s *Staking) Version() string                      { return thor.Version }
func (s *Staking) Owner() (thor.Address, error)         { return s.gate.Owner() }
func (s *Staking) Paused() (bool, error)                { return s.gate.Paused() }
func (s *Staking) RewardRate() (*uint256.Int, error)    { return s.rewardRate.Get() }
func (s *Staking) TotalStaked() (*uint256.Int, error)   { return s.totalStaked.Get() }
func (s *Staking) NFTCollection() (thor.Address, error) { return s.nftCollection.Get() }
func (s *Staking) RewardToken() (thor.Address, error)   { return s.rewardToken.Get() }

// StakerOf returns the zero address for ids not staked here.
func (s *Staking) StakerOf(id *uint256.Int) (thor.Address, error) {
	return s.stakerOf.Get(idKey(id))
}

func (s *Staking) record(user thor.Address) (*StakeRecord, error) {
	rec, err := s.records.Get(user)
	if err != nil {
		return nil, err
	}
	if rec.AccruedUnclaimed == nil {
		rec.AccruedUnclaimed = new(uint256.Int)
	}
	return rec, nil
}

// GetUserStakeInfo projects the record of user at the current time.
func (s *Staking) GetUserStakeInfo(user thor.Address) (*StakeInfo, error) {
	rec, err := s.record(user)
	if err != nil {
		return nil, err
	}
	claimable, err := s.claimable(rec)
	if err != nil {
		return nil, err
	}
	ids := rec.StakedIDs
	if ids == nil {
		ids = []*uint256.Int{}
	}
	return &StakeInfo{
		StakedIDs:       ids,
		LastAccrualTime: rec.LastAccrualTime,
		Claimable:       claimable,
	}, nil
}

// CalculateRewards is the unclaimed reward of user plus what accrued since
// the last settlement. It saturates at the largest uint256.
func (s *Staking) CalculateRewards(user thor.Address) (*uint256.Int, error) {
	rec, err := s.record(user)
	if err != nil {
		return nil, err
	}
	return s.claimable(rec)
}

func (s *Staking) claimable(rec *StakeRecord) (*uint256.Int, error) {
	rate, err := s.rewardRate.Get()
	if err != nil {
		return nil, err
	}
	return rec.claimable(rate, s.sctx.Now()), nil
}

//
// Setters - state change
//

// Stake locks ids of the caller in the registry. The caller must own every id
// and have approved the registry as operator.
func (s *Staking) Stake(caller thor.Address, ids []*uint256.Int) error {
	logger.Debug("staking", "user", caller, "ids", len(ids))

	err := s.sctx.Atomic(func() error {
		if err := s.gate.RequireNotPaused(); err != nil {
			return err
		}
		if err := checkIDs(ids, "No tokens to stake"); err != nil {
			return err
		}
		registry, err := s.assetRegistry()
		if err != nil {
			return err
		}
		approved, err := registry.IsApprovedForAll(caller, s.sctx.Address())
		if err != nil {
			return err
		}
		if !approved {
			return reverts.New(reverts.KindUnauthorized, "Staking not approved")
		}
		for _, id := range ids {
			owner, err := registry.OwnerOf(id)
			if err != nil {
				return err
			}
			if owner != caller {
				return reverts.New(reverts.KindUnauthorized, "Not token owner")
			}
		}

		rec, err := s.record(caller)
		if err != nil {
			return err
		}
		if err := s.settle(rec); err != nil {
			return err
		}
		for _, id := range ids {
			rec.StakedIDs = append(rec.StakedIDs, id.Clone())
			if err := s.stakerOf.Set(idKey(id), caller); err != nil {
				return err
			}
		}
		if err := s.records.Set(caller, rec); err != nil {
			return err
		}
		if _, err := s.totalStaked.Add(uint256.NewInt(uint64(len(ids)))); err != nil {
			return err
		}

		for _, id := range ids {
			if err := registry.TransferFrom(s.sctx.Address(), caller, s.sctx.Address(), id); err != nil {
				return err
			}
		}
		s.sctx.Emit("Staked", "user", caller, "tokenIds", ids)
		return nil
	})
	if err != nil {
		logger.Info("stake failed", "user", caller, "error", err)
		return err
	}
	metricStakeOps().AddWithLabel(1, map[string]string{"op": "stake"})
	return nil
}

// Withdraw returns staked ids to the caller. Unclaimed reward is kept.
func (s *Staking) Withdraw(caller thor.Address, ids []*uint256.Int) error {
	logger.Debug("withdrawing", "user", caller, "ids", len(ids))
	return s.unstake(caller, ids, false)
}

// EmergencyUnstake is Withdraw for use while the registry is paused. It
// still succeeds when the reward math overflows, keeping the largest
// representable reward.
func (s *Staking) EmergencyUnstake(caller thor.Address, ids []*uint256.Int) error {
	logger.Debug("emergency unstaking", "user", caller, "ids", len(ids))
	return s.unstake(caller, ids, true)
}

func (s *Staking) unstake(caller thor.Address, ids []*uint256.Int, emergency bool) error {
	event, op := "Withdrawn", "withdraw"
	if emergency {
		event, op = "EmergencyUnstaked", "emergency_unstake"
	}
	err := s.sctx.Atomic(func() error {
		if err := checkIDs(ids, "No tokens to withdraw"); err != nil {
			return err
		}
		for _, id := range ids {
			staker, err := s.stakerOf.Get(idKey(id))
			if err != nil {
				return err
			}
			if staker != caller {
				return reverts.New(reverts.KindTokenNotStaked, "Token not staked")
			}
		}
		registry, err := s.assetRegistry()
		if err != nil {
			return err
		}

		rec, err := s.record(caller)
		if err != nil {
			return err
		}
		if emergency {
			if err := s.settleSaturating(rec); err != nil {
				return err
			}
		} else if err := s.settle(rec); err != nil {
			return err
		}
		rec.remove(ids)
		for _, id := range ids {
			s.stakerOf.Delete(idKey(id))
		}
		if err := s.records.Set(caller, rec); err != nil {
			return err
		}
		if _, err := s.totalStaked.Sub(uint256.NewInt(uint64(len(ids)))); err != nil {
			return err
		}

		for _, id := range ids {
			if err := registry.TransferFrom(s.sctx.Address(), s.sctx.Address(), caller, id); err != nil {
				return err
			}
		}
		s.sctx.Emit(event, "user", caller, "tokenIds", ids)
		return nil
	})
	if err != nil {
		logger.Info("unstake failed", "user", caller, "op", op, "error", err)
		return err
	}
	metricStakeOps().AddWithLabel(1, map[string]string{"op": op})
	return nil
}

// ClaimRewards mints everything the caller has accrued.
func (s *Staking) ClaimRewards(caller thor.Address) (*uint256.Int, error) {
	logger.Debug("claiming rewards", "user", caller)

	var amount *uint256.Int
	err := s.sctx.Atomic(func() error {
		rec, err := s.record(caller)
		if err != nil {
			return err
		}
		rate, err := s.rewardRate.Get()
		if err != nil {
			return err
		}
		if amount, err = rec.take(rate, s.sctx.Now()); err != nil {
			return err
		}
		if amount.IsZero() {
			return reverts.New(reverts.KindNoRewardsAvailable, "No rewards available")
		}
		if err := s.records.Set(caller, rec); err != nil {
			return err
		}

		minter, err := s.rewardMinter()
		if err != nil {
			return err
		}
		if err := minter.Mint(s.sctx.Address(), caller, amount); err != nil {
			return err
		}
		s.sctx.Emit("RewardsClaimed", "user", caller, "amount", amount)
		return nil
	})
	if err != nil {
		logger.Info("claim failed", "user", caller, "error", err)
		return nil, err
	}
	logger.Debug("rewards claimed", "user", caller, "amount", amount)
	return amount, nil
}

func (s *Staking) settle(rec *StakeRecord) error {
	rate, err := s.rewardRate.Get()
	if err != nil {
		return err
	}
	return rec.settle(rate, s.sctx.Now())
}

func (s *Staking) settleSaturating(rec *StakeRecord) error {
	rate, err := s.rewardRate.Get()
	if err != nil {
		return err
	}
	rec.settleSaturating(rate, s.sctx.Now())
	return nil
}

// checkIDs rejects empty lists and repeated ids.
func checkIDs(ids []*uint256.Int, emptyMsg string) error {
	if len(ids) == 0 {
		return reverts.New(reverts.KindInvalidAmount, emptyMsg)
	}
	seen := make(map[uint256.Int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[*id]; ok {
			return reverts.New(reverts.KindInvalidAmount, "Duplicate token id "+id.Dec())
		}
		seen[*id] = struct{}{}
	}
	return nil
}

func (s *Staking) assetRegistry() (AssetRegistry, error) {
	addr, err := s.nftCollection.Get()
	if err != nil {
		return nil, err
	}
	return s.resolver.AssetRegistry(addr)
}

func (s *Staking) rewardMinter() (RewardMinter, error) {
	addr, err := s.rewardToken.Get()
	if err != nil {
		return nil, err
	}
	return s.resolver.RewardMinter(addr)
}

// SetRewardRate replaces the rate. Time not yet settled by a staker is
// rewarded at the new rate.
func (s *Staking) SetRewardRate(caller thor.Address, rate *uint256.Int) error {
	return s.sctx.Atomic(func() error {
		if err := s.gate.Guard(caller, gate.RoleOwner); err != nil {
			return err
		}
		s.rewardRate.Set(rate)
		s.sctx.Emit("RewardRateUpdated", "rate", rate)
		logger.Info("reward rate updated", "rate", rate)
		return nil
	})
}

func (s *Staking) SetPaused(caller thor.Address, paused bool) error {
	return s.gate.SetPaused(caller, paused)
}

// SetNFTCollection replaces the collection. Staked ids do not record their
// collection, so the swap is refused while anything is staked.
func (s *Staking) SetNFTCollection(caller, addr thor.Address) error {
	if err := s.gate.Guard(caller, gate.RoleOwner); err != nil {
		return err
	}
	total, err := s.totalStaked.Get()
	if err != nil {
		return err
	}
	if !total.IsZero() {
		return reverts.New(reverts.KindInvalidAddress, "Collection has staked tokens")
	}
	return s.setAddress(caller, addr, s.nftCollection, "NFTCollectionUpdated")
}

func (s *Staking) SetRewardToken(caller, addr thor.Address) error {
	return s.setAddress(caller, addr, s.rewardToken, "RewardTokenUpdated")
}

func (s *Staking) setAddress(caller, addr thor.Address, slot *solidity.Address, event string) error {
	return s.sctx.Atomic(func() error {
		if err := s.gate.Guard(caller, gate.RoleOwner); err != nil {
			return err
		}
		if addr.IsZero() {
			return reverts.New(reverts.KindInvalidAddress, "Invalid address")
		}
		slot.Set(addr)
		s.sctx.Emit(event, "addr", addr)
		return nil
	})
}

func (s *Staking) TransferOwnership(caller, newOwner thor.Address) error {
	return s.gate.TransferOwnership(caller, newOwner)
}
