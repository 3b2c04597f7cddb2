package auth

import "context"

type employeeIDKey struct{}

// WithEmployeeID returns a child context carrying the acting employee id.
func WithEmployeeID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, employeeIDKey{}, id)
}

// EmployeeIDFrom returns the acting employee id set by the request filter.
func EmployeeIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(employeeIDKey{}).(int64)
	return id, ok
}
