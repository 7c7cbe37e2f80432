// Package mocks содержит testify-моки контрактов domain.
package mocks

import "github.com/stretchr/testify/mock"

// value достает типизированное значение из аргументов Return; nil дает нулевое значение.
func value[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}
