// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db persists practice attempts, saved VLSM designs and the audit
// log through Bun on SQLite, PostgreSQL or MySQL.
//
// Schema changes live in embedded per-dialect migrations under
// migrations/<type>/NNNN_name.up.sql and are applied by New. Callers depend
// on the Store interface so that tests can substitute an in-memory fake;
// BunStore is the production implementation.
//
// Driver errors are normalised with MapDBError into ErrDuplicate and
// ErrNotFound.
package db
