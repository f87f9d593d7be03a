// Package store defines the persistence contracts for users and bank accounts.
// Implementations live under internal/platform (postgres, memory); services
// depend only on the interfaces here.
package store
