// Package mocks provides test doubles for the geocode client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	geocode "github.com/sells-group/leadgen-cli/pkg/geocode"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Geocode provides a mock function with given fields: ctx, location
func (_m *MockClient) Geocode(ctx context.Context, location string) (*geocode.Point, error) {
	ret := _m.Called(ctx, location)

	if len(ret) == 0 {
		panic("no return value specified for Geocode")
	}

	var r0 *geocode.Point
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*geocode.Point, error)); ok {
		return rf(ctx, location)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *geocode.Point); ok {
		r0 = rf(ctx, location)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*geocode.Point)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, location)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
