// Package papertrade provides a single-user paper trading ledger: a cash
// balance, positions per ticker, orders and the trades that closed positions.
//
// The core types are:
//   - Account: the ledger itself. Every operation validates before it mutates,
//     so a failed operation leaves the account unchanged.
//   - Order: a buy or sell request whose price is frozen when it is created.
//   - Position: a quantity held and its weighted-average entry price.
//   - Trade: the realized profit and loss of closing part of a position.
//   - PriceOracle: where current prices come from. PriceTable is the in-memory
//     implementation, loadable from JSON or YAML files.
//
// Prices and amounts are exact decimals (Money, Quantity), never floats.
//
// Session scripts (JSONL, one Command per line) record the operations applied
// to an Account so that it can be rebuilt by replaying them. This package
// serves as the foundational logic for the `ptrade` command-line tool.
package papertrade
