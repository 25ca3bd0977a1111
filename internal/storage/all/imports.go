// Package all registers every built-in storage backend when imported:
// sqlite, postgres, mysql and mssql.
//
//	import _ "salesclean/internal/storage/all"
package all

import (
	_ "salesclean/internal/storage/mssql"
	_ "salesclean/internal/storage/mysql"
	_ "salesclean/internal/storage/postgres"
	_ "salesclean/internal/storage/sqlite"
)
