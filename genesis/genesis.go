// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/incentive/builtin"
	"github.com/vechain/incentive/kv"
	"github.com/vechain/incentive/state"
	"github.com/vechain/incentive/thor"
	"github.com/vechain/incentive/xenv"
)

// ErrAlreadyBuilt is returned when the store already holds initialized builtins.
var ErrAlreadyBuilt = errors.New("genesis already built")

// Genesis to build the initial state.
type Genesis struct {
	builder *Builder
	digest  thor.Bytes32
	name    string
	config  *Config
}

// NewCustomNet create genesis from a user config.
func NewCustomNet(cfg *Config) (*Genesis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builder := new(Builder).
		Timestamp(cfg.LaunchTime).
		Setup(func(env *xenv.Environment) error {
			return setupBuiltins(env, cfg)
		}).
		Setup(func(env *xenv.Environment) error {
			return allocAccounts(env, cfg)
		})

	digest, err := builder.ComputeDigest()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, digest, "customnet", cfg}, nil
}

// Build commits the initial state into db. It fails with ErrAlreadyBuilt
// when db was built before.
func (g *Genesis) Build(db kv.Store) (thor.Bytes32, error) {
	built, err := Initialized(db)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if built {
		return thor.Bytes32{}, ErrAlreadyBuilt
	}
	return g.builder.Build(db)
}

// Digest returns the digest of the initial state.
func (g *Genesis) Digest() thor.Bytes32 {
	return g.digest
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// Config returns the config the genesis was built from.
func (g *Genesis) Config() *Config {
	return g.config
}

// Initialized reports whether the builtins in db are set up.
func Initialized(db kv.Getter) (bool, error) {
	env := xenv.New(state.New(db), nil, nil)
	owner, err := builtin.Token.Native(env).Owner()
	if err != nil {
		return false, err
	}
	return !owner.IsZero(), nil
}
