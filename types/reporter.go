package types

// Reporter receives test failures. *testing.T satisfies it, and so does any
// gomock.TestHelper.
type Reporter interface {
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Helper()
}
