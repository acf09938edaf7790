// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Kind classifies why a builtin call was rejected.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindInvalidAmount
	KindInvalidAddress
	KindInvalidRecipient
	KindInsufficientBalance
	KindInsufficientAllowance
	KindExceedsSupplyCap
	KindTokenNotStaked
	KindNoRewardsAvailable
	KindPaused
	KindAlreadyInitialized
	KindArithmeticOverflow
	KindUnknownContract
	KindNonexistentToken
)

var kindNames = map[Kind]string{
	KindUnknown:               "Unknown",
	KindUnauthorized:          "Unauthorized",
	KindInvalidAmount:         "InvalidAmount",
	KindInvalidAddress:        "InvalidAddress",
	KindInvalidRecipient:      "InvalidRecipient",
	KindInsufficientBalance:   "InsufficientBalance",
	KindInsufficientAllowance: "InsufficientAllowance",
	KindExceedsSupplyCap:      "ExceedsSupplyCap",
	KindTokenNotStaked:        "TokenNotStaked",
	KindNoRewardsAvailable:    "NoRewardsAvailable",
	KindPaused:                "Paused",
	KindAlreadyInitialized:    "AlreadyInitialized",
	KindArithmeticOverflow:    "ArithmeticOverflow",
	KindUnknownContract:       "UnknownContract",
	KindNonexistentToken:      "NonexistentToken",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Sentinels for errors.Is matching on kind only.
var (
	ErrUnauthorized          = &Error{Kind: KindUnauthorized}
	ErrInvalidAmount         = &Error{Kind: KindInvalidAmount}
	ErrInvalidAddress        = &Error{Kind: KindInvalidAddress}
	ErrInvalidRecipient      = &Error{Kind: KindInvalidRecipient}
	ErrInsufficientBalance   = &Error{Kind: KindInsufficientBalance}
	ErrInsufficientAllowance = &Error{Kind: KindInsufficientAllowance}
	ErrExceedsSupplyCap      = &Error{Kind: KindExceedsSupplyCap}
	ErrTokenNotStaked        = &Error{Kind: KindTokenNotStaked}
	ErrNoRewardsAvailable    = &Error{Kind: KindNoRewardsAvailable}
	ErrPaused                = &Error{Kind: KindPaused}
	ErrAlreadyInitialized    = &Error{Kind: KindAlreadyInitialized}
	ErrArithmeticOverflow    = &Error{Kind: KindArithmeticOverflow}
	ErrUnknownContract       = &Error{Kind: KindUnknownContract}
	ErrNonexistentToken      = &Error{Kind: KindNonexistentToken}
)

// Error is a rejected call. Requested and Available are set for
// amount related failures.
type Error struct {
	Kind      Kind
	Message   string
	Requested *uint256.Int
	Available *uint256.Int
}

// New creates a revert of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewAmount creates a revert carrying the offending amounts.
func NewAmount(kind Kind, message string, requested, available *uint256.Int) *Error {
	e := New(kind, message)
	if requested != nil {
		e.Requested = requested.Clone()
	}
	if available != nil {
		e.Available = available.Clone()
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Requested != nil && e.Available != nil {
		return fmt.Sprintf("%s (requested %s, available %s)", msg, e.Requested.Dec(), e.Available.Dec())
	}
	return msg
}

// Is reports whether target is a revert of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Bytes encodes the message as the abi of Error(string).
func (e *Error) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.Error())
	msgLen := uint64(len(msgBytes))

	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

// IsRevertErr reports whether err is, or wraps, a revert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *Error
	if errors.As(e, &ve) {
		return ve != nil
	}
	return false
}

// KindOf returns the kind of the revert wrapped by err.
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return KindUnknown
}

// Overflow is returned when 256-bit arithmetic would wrap.
func Overflow(op string) *Error {
	return New(KindArithmeticOverflow, "arithmetic overflow in "+op)
}
