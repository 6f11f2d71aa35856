// Package repository provides the ledger and order-history stores: a
// PostgreSQL implementation for durable deployments and an in-memory
// implementation for development and tests.
package repository

import "github.com/AI-Trading-APP/paper-trading/service"

// Compile-time interface checks.
var (
	_ service.LedgerStore = (*LedgerRepository)(nil)
	_ service.LedgerStore = (*MemoryLedger)(nil)
	_ service.OrderStore  = (*OrderRepository)(nil)
	_ service.OrderStore  = (*MemoryOrderLog)(nil)
)
