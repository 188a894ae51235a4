// Package db embeds the ledger schema migrations.
package db

import "embed"

// Migrations holds one directory of golang-migrate files per SQL driver.
//
//go:embed migrations
var Migrations embed.FS
