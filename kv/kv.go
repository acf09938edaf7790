// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

type (
	// Getter reads values. A missing key yields an error accepted by IsNotFound.
	Getter interface {
		Get(key []byte) ([]byte, error)
		Has(key []byte) (bool, error)
		IsNotFound(err error) bool
	}

	// Putter writes values.
	Putter interface {
		Put(key, val []byte) error
		Delete(key []byte) error
	}

	// Batch collects puts and applies them at once on Write.
	Batch interface {
		Putter
		Len() int
		Write() error
	}

	// Store is the backing store of the ledgers.
	Store interface {
		Getter
		Putter
		NewBatch() Batch
		Close() error
	}
)

type (
	GetFunc        func(key []byte) ([]byte, error)
	HasFunc        func(key []byte) (bool, error)
	PutFunc        func(key, val []byte) error
	DeleteFunc     func(key []byte) error
	IsNotFoundFunc func(err error) bool
)

func (f GetFunc) Get(key []byte) ([]byte, error)   { return f(key) }
func (f HasFunc) Has(key []byte) (bool, error)     { return f(key) }
func (f PutFunc) Put(key, val []byte) error        { return f(key, val) }
func (f DeleteFunc) Delete(key []byte) error       { return f(key) }
func (f IsNotFoundFunc) IsNotFound(err error) bool { return f(err) }
