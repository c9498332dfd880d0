// Package types defines the tagged cell values, rows, table schemas, demo
// table names, and standard errors shared by the schemalab store, its
// validation rules, and every presentation surface built on top of them.
package types
