// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrInvalidFeeRate indicates a transaction was submitted with a fee
	// rate that is not a positive finite number.
	ErrInvalidFeeRate ErrorCode = iota

	// ErrInvalidSize indicates a transaction was submitted with a virtual
	// size that is not a positive finite number.
	ErrInvalidSize

	// ErrInvalidRound indicates a block number below 1 was passed where a
	// 1-indexed block number is required.
	ErrInvalidRound

	// ErrInvalidRiskLevel indicates a risk level outside of the defined
	// set of levels.
	ErrInvalidRiskLevel

	// ErrFocusNotFound indicates the focus transaction is not part of any
	// allocated round.  This happens when the focus transaction was never
	// added to the demand set.
	ErrFocusNotFound

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidFeeRate:   "ErrInvalidFeeRate",
	ErrInvalidSize:      "ErrInvalidSize",
	ErrInvalidRound:     "ErrInvalidRound",
	ErrInvalidRiskLevel: "ErrInvalidRiskLevel",
	ErrFocusNotFound:    "ErrFocusNotFound",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// IsInvalidInput returns whether the error code describes input the caller
// can correct and resubmit.
func (e ErrorCode) IsInvalidInput() bool {
	switch e {
	case ErrInvalidFeeRate, ErrInvalidSize, ErrInvalidRound,
		ErrInvalidRiskLevel:
		return true
	}
	return false
}

// RuleError identifies a violation of the input rules of the auction model.
// The caller can use errors.As to determine if a failure was specifically
// due to a rule violation and access the ErrorCode field to ascertain the
// specific reason.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// NewRuleError creates a RuleError for packages building on the auction
// model.
func NewRuleError(c ErrorCode, desc string) RuleError {
	return ruleError(c, desc)
}

// IsErrorCode returns whether or not the provided error is a RuleError with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var rerr RuleError
	return errors.As(err, &rerr) && rerr.ErrorCode == c
}
