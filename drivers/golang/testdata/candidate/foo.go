package testmod

import (
	"context"

	"github.com/acme/testmod/sub"
)

// DoWork: signature changed (added opts param).
func DoWork(ctx context.Context, name string, opts map[string]string) (string, error) {
	return "", nil
}

func SimpleFunc() {
}

// HelperFunc renamed to HelperFunction (same signature).
func HelperFunction(a, b int) int {
	return a + b
}

func Variadic(args ...string) int {
	return len(args)
}

// Config renamed to Settings (same fields).
type Settings struct {
	Host    string
	Port    int
	Timeout int
	Sub     *sub.SubType
	secret  string
}

// Handler: method signature changed.
type Handler interface {
	Handle(ctx context.Context, req string, opts ...string) (string, error)
	Close() error
}

// Token: underlying type changed, no member difference.
type Token int

type Level int

func (s *Settings) Validate() error {
	return nil
}

func (s *Settings) Apply(target string, force bool) (bool, error) {
	return false, nil
}

const MaxRetries int = 3

const UntypedConst = "hello"

const (
	LevelLow Level = iota
	LevelHigh
)

var ErrNotFound error

var DefaultConfig Settings

var Computed = 3

// Added in candidate.
func NewFeature() {}
