package migrations

import "embed"

// PostgresFS embeds the warehouse schema files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the analytical schema files.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
