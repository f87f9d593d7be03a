// Package events defines the domain events published by the account service
// and the emitters that deliver them.
//
// Services emit events only after their transaction commits. Emitters:
//   - InMemoryEventEmitter: synchronous in-process fan-out to registered handlers
//   - NoopEmitter: discards everything
//   - Dispatcher: queues events and delivers them to another emitter from
//     a worker pool
//
// A Redis stream emitter lives in internal/platform/redis.
package events
