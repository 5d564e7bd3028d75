package models

// Tables lists every persisted entity for schema migration.
var Tables = []interface{}{
	&Product{},
	&Client{},
	&Transaction{},
	&Billing{},
	&TransactionIntent{},
}
