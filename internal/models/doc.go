// Package models defines the core domain models for splitledger.
//
// # Money
//
// Every amount in this package is an int64 in minor currency units
// (cents, paise). Balance math must stay exact: the sum of all net
// balances in a group is zero at all times, and floating point cannot
// hold that invariant. Conversion to and from decimal display values
// happens only at the API boundary (see internal/money).
//
// # Ledger
//
// Expenses and settlements form an append-mostly ledger per group.
// Net balances are always derived by folding the ledger; they are
// never stored, so stored state and derived state cannot diverge.
// LedgerSnapshot carries one consistent view of a group's ledger
// together with the group's ledger version, which increments on every
// write and keys the balance cache.
package models
