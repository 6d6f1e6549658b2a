package logging

import "github.com/mmo/mmopack/pkg/release"

// NullLogger discards everything. Services under test use it when their
// output is not what the test checks.
type NullLogger struct{}

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(string, ...interface{}) {}
func (l *NullLogger) Info(string, ...interface{})    {}
func (l *NullLogger) Error(string, ...interface{})   {}

var _ release.Logger = (*NullLogger)(nil)
