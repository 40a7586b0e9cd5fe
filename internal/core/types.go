package core

import "customerdesk/pkg/domain"

type (
	Customer      = domain.Customer
	BatchResult   = domain.BatchResult
	BatchEvent    = domain.BatchEvent
	Violation     = domain.Violation
	Result        = domain.Result
	Rule          = domain.Rule
	RuleView      = domain.RuleView
	RulesEngine   = domain.RulesEngine
	Persister     = domain.Persister
	StorageDriver = domain.StorageDriver
)

const (
	StorageFile     = domain.StorageFile
	StorageMemory   = domain.StorageMemory
	StorageSQLite   = domain.StorageSQLite
	StoragePostgres = domain.StoragePostgres
	StorageS3       = domain.StorageS3
	StoragePebble   = domain.StoragePebble
)
