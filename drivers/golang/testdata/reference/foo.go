package testmod

import (
	"context"

	"github.com/acme/testmod/sub"
)

// Functions

func DoWork(ctx context.Context, name string) (string, error) {
	return "", nil
}

func SimpleFunc() {
}

func HelperFunc(a, b int) int {
	return a + b
}

func Variadic(args ...string) int {
	return len(args)
}

func unexportedFunc() {}

// Types

type Config struct {
	Host    string
	Port    int
	Timeout int
	Sub     *sub.SubType
	secret  string
}

type Handler interface {
	Handle(ctx context.Context, req string) (string, error)
	Close() error
}

type Token string

type Level int

type unexportedType struct{}

// Methods

func (c *Config) Validate() error {
	return nil
}

func (c *Config) Apply(target string) (bool, error) {
	return false, nil
}

func (u *unexportedType) Hidden() {}

// Constants and variables

const MaxRetries int = 3

const UntypedConst = "hello"

const (
	LevelLow Level = iota
	LevelHigh
)

var ErrNotFound error

var DefaultConfig Config

var Computed = 3
