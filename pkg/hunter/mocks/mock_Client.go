// Package mocks provides test doubles for the hunter client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	hunter "github.com/sells-group/leadgen-cli/pkg/hunter"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// DomainSearch provides a mock function with given fields: ctx, domain
func (_m *MockClient) DomainSearch(ctx context.Context, domain string) ([]hunter.Contact, error) {
	ret := _m.Called(ctx, domain)

	if len(ret) == 0 {
		panic("no return value specified for DomainSearch")
	}

	var r0 []hunter.Contact
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]hunter.Contact, error)); ok {
		return rf(ctx, domain)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []hunter.Contact); ok {
		r0 = rf(ctx, domain)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]hunter.Contact)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, domain)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
