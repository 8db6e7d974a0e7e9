package main

import (
	"io"

	"github.com/chschnell/pcc/internal/lower"
)

// Option configures a single compilation using the same functional-options
// pattern as gothird's VMOption.
type Option interface{ apply(*compileOptions) }

type compileOptions struct {
	comments    bool
	reduce      bool
	dump        bool
	extendedISA bool
	memReport   bool
	output      io.Writer
}

func newCompileOptions(opts ...Option) *compileOptions {
	co := &compileOptions{reduce: true}
	for _, opt := range opts {
		opt.apply(co)
	}
	return co
}

type optionFunc func(*compileOptions)

func (f optionFunc) apply(co *compileOptions) { f(co) }

func WithComments(v bool) Option      { return optionFunc(func(co *compileOptions) { co.comments = v }) }
func WithoutReduce() Option           { return optionFunc(func(co *compileOptions) { co.reduce = false }) }
func WithDump(v bool) Option          { return optionFunc(func(co *compileOptions) { co.dump = v }) }
func WithExtendedISA(v bool) Option   { return optionFunc(func(co *compileOptions) { co.extendedISA = v }) }
func WithMemReport(v bool) Option     { return optionFunc(func(co *compileOptions) { co.memReport = v }) }
func WithOutput(w io.Writer) Option   { return optionFunc(func(co *compileOptions) { co.output = w }) }

func (co *compileOptions) dialect() lower.Dialect {
	if co.extendedISA {
		return lower.DialectExtended
	}
	return lower.DialectClassic
}
