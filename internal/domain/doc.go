// Package domain contains the core business entities of the account service:
// users, the bank accounts they own, and the guard functions that keep names
// and balances valid. It has no knowledge of storage or transport.
package domain
