package ports

// Environment scopes mutations of the process environment.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type Environment interface {
	// PrependPath puts dir in front of PATH. The returned func restores the
	// previous value and must be called on every exit path.
	PrependPath(dir string) (restore func(), err error)
}
