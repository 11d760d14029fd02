// Package manager owns the authoritative process table. It creates,
// terminates, blocks and inspects processes; the scheduler only ever holds
// non-owning references handed out here.
package manager
