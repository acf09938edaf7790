// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/incentive/thor"
)

// Config is a user customized genesis, loaded from yaml or json.
type Config struct {
	LaunchTime uint64           `json:"launchTime" yaml:"launchTime"`
	Owner      thor.Address     `json:"owner" yaml:"owner"`
	Token      TokenConfig      `json:"token" yaml:"token"`
	Collection CollectionConfig `json:"collection" yaml:"collection"`
	Staking    StakingConfig    `json:"staking" yaml:"staking"`
	Pool       PoolConfig       `json:"pool" yaml:"pool"`
	Vault      VaultConfig      `json:"vault" yaml:"vault"`
	Accounts   []Account        `json:"accounts" yaml:"accounts"`
}

// TokenConfig describes the reward token. InitialSupply defaults to
// thor.InitialTokenSupply and is minted to the owner.
type TokenConfig struct {
	Name          string  `json:"name" yaml:"name"`
	Symbol        string  `json:"symbol" yaml:"symbol"`
	InitialSupply *Amount `json:"initialSupply" yaml:"initialSupply"`
}

// CollectionConfig describes the asset collection.
type CollectionConfig struct {
	Name      string  `json:"name" yaml:"name"`
	Symbol    string  `json:"symbol" yaml:"symbol"`
	BaseURI   string  `json:"baseURI" yaml:"baseURI"`
	MintPrice *Amount `json:"mintPrice" yaml:"mintPrice"`
}

// StakingConfig describes the stake registry.
type StakingConfig struct {
	RewardRate *Amount `json:"rewardRate" yaml:"rewardRate"`
}

// PoolConfig describes the fungible stake pool. A bookkeeping pool holds
// no tokens and only tracks amounts.
type PoolConfig struct {
	RewardRate  *Amount `json:"rewardRate" yaml:"rewardRate"`
	Bookkeeping bool    `json:"bookkeeping" yaml:"bookkeeping"`
}

// VaultConfig describes the escrow vault. Funding is deposited by the owner.
type VaultConfig struct {
	Funding *Amount `json:"funding" yaml:"funding"`
}

// Account is prefunded with tokens and assets minted from the collection.
type Account struct {
	Address thor.Address `json:"address" yaml:"address"`
	Balance *Amount      `json:"balance" yaml:"balance"`
	Assets  []string     `json:"assets" yaml:"assets"`
}

// Amount is a 256-bit amount given as hex or decimal.
type Amount uint256.Int

// Int returns the amount, nil for a nil amount.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return nil
	}
	return (*uint256.Int)(a)
}

func (a *Amount) parse(s string) error {
	bigint, ok := math.ParseBig256(s)
	if !ok || bigint.Sign() < 0 {
		return fmt.Errorf("invalid hex or decimal integer %q", s)
	}
	v, overflow := uint256.FromBig(bigint)
	if overflow {
		return fmt.Errorf("integer %q overflows 256 bits", s)
	}
	*a = Amount(*v)
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Amount) UnmarshalJSON(input []byte) error {
	var str string
	if err := json.Unmarshal(input, &str); err != nil {
		return a.parse(string(input))
	}
	return a.parse(str)
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	return a.parse(node.Value)
}

// MarshalJSON implements the json.Marshaler interface.
func (a *Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Int().Dec())
}

// Validate checks the config before anything is built from it.
func (c *Config) Validate() error {
	if c.Owner.IsZero() {
		return errors.New("owner required")
	}
	if c.Token.Name == "" || c.Token.Symbol == "" {
		return errors.New("token name and symbol required")
	}
	if supply := c.Token.InitialSupply.Int(); supply != nil && supply.Gt(thor.MaxTokenSupply) {
		return errors.Errorf("initial supply %s exceeds max supply", supply.Dec())
	}
	for i, acc := range c.Accounts {
		if acc.Address.IsZero() {
			return errors.Errorf("account #%d: address required", i)
		}
	}
	return nil
}

// LoadConfig reads a config file. Files ending in .json are decoded as json,
// anything else as yaml.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid genesis")
	}
	return &cfg, nil
}
