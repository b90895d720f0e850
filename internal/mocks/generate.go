// Package mocks provides gomock-generated mocks for the identity ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	svc := mocks.NewMockIdentityService(ctrl)
//	svc.EXPECT().GetSession(gomock.Any(), gomock.Any()).Return(nil, nil)
package mocks

// Generate mock for IdentityService from internal/ports.
// This creates MockIdentityService with SignUpEmail, SignInEmail, SignOut and GetSession.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=identity_service_mock.go github.com/ori-platform/ori-auth/internal/ports IdentityService
