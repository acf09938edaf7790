// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/holiman/uint256"
)

func RandInt() int {
	return gofakeit.Int()
}

// RandIntN returns a value in [0, n).
func RandIntN(n int) int {
	return gofakeit.IntN(n)
}

// RandAmount returns an amount in [1, max].
func RandAmount(max uint64) *uint256.Int {
	return uint256.NewInt(gofakeit.Uint64()%max + 1)
}
