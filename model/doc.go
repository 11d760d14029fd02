// Package model holds the declarative program definition consumed by the
// process manager.
package model
