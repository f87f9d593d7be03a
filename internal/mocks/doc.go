// Package mocks provides shared test doubles for the store and events
// interfaces.
//
// Two styles are available:
//
//   - testify mocks (TestifyMockUserStore, TestifyMockAccountStore) for
//     asserting exact calls and injecting store failures
//   - function-field fakes (MockTransactor, MockEventEmitter) that behave
//     sensibly with no setup
//
// Example:
//
//	users := &mocks.TestifyMockUserStore{}
//	users.On("GetByID", mock.Anything, id).Return(nil, store.ErrUserNotFound)
//
//	svc := service.NewUserService(users, accounts, &mocks.MockTransactor{}, &mocks.MockEventEmitter{}, nil)
package mocks
