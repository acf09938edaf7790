// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// RandTokenName returns a plausible token or collection name.
func RandTokenName() string {
	return gofakeit.Company() + " Token"
}

// RandSymbol returns an upper case ticker of 3 to 5 letters.
func RandSymbol() string {
	return strings.ToUpper(gofakeit.LetterN(uint(3 + gofakeit.IntN(3))))
}

// RandAssetURI returns a relative metadata path like "fox-42.json".
func RandAssetURI() string {
	return strings.ToLower(gofakeit.Animal()) + "-" + gofakeit.DigitN(4) + ".json"
}
