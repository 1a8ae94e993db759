// Package migrations содержит SQL-схему, встроенную в бинарник.
package migrations

import "embed"

// FS миграции в порядке имён файлов.
//
//go:embed *.sql
var FS embed.FS
