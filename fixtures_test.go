package crate

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xraph/go-utils/log"
)

// Fixture classes used across the test files.

type classA struct{}

type classB struct {
	a *classA
}

func newClassB(a *classA) *classB {
	return &classB{a: a}
}

type classC struct{}

func newClassC(notTyped string) *classC {
	return &classC{}
}

type interfaceA interface {
	Hello() string
}

type implementationA struct {
	a *classA
}

func newImplementationA(a *classA) *implementationA {
	return &implementationA{a: a}
}

func (i *implementationA) Hello() string { return "hello" }

type classD struct {
	i interfaceA
}

func newClassD(i interfaceA) *classD {
	return &classD{i: i}
}

// classE reaches classA directly and through classB.
type classE struct {
	a *classA
	b *classB
}

func newClassE(a *classA, b *classB) *classE {
	return &classE{a: a, b: b}
}

type cycleX struct{ y *cycleY }
type cycleY struct{ x *cycleX }

func newCycleX(y *cycleY) *cycleX { return &cycleX{y: y} }
func newCycleY(x *cycleX) *cycleY { return &cycleY{x: x} }

var errBoom = errors.New("boom")

type failing struct{}

func newFailing() (*failing, error) {
	return nil, errBoom
}

// classF builds classA before its failing dependency.
type classF struct{}

func newClassF(a *classA, f *failing) *classF {
	return &classF{}
}

// classG has a typed parameter before an untyped one.
type classG struct{}

func newClassG(a *classA, port int) *classG {
	return &classG{}
}

// newFixtureRegistry registers every fixture except the cycle.
func newFixtureRegistry(t testing.TB) *TypeRegistry {
	t.Helper()

	reg := NewTypeRegistry()
	require.NoError(t, ProvideType[*classA](reg))
	require.NoError(t, DeclareInterface[interfaceA](reg))
	require.NoError(t, ProvideAll(reg,
		newClassB,
		newClassC,
		newImplementationA,
		newClassD,
		newClassE,
		newFailing,
		newClassF,
		newClassG,
	))

	return reg
}

// newFixtureContainer returns a container over the fixtures with
// interfaceA bound to implementationA.
func newFixtureContainer(t testing.TB, opts ...Option) *Container {
	t.Helper()

	c := New(newFixtureRegistry(t), opts...)
	require.NoError(t, BindInterfaceTo[interfaceA, *implementationA](c))

	return c
}

type logEntry struct {
	level  string
	logger string
	msg    string
	fields map[string]any
}

// recordingLogger keeps every entry written through it and its named
// children. Methods it does not override fall through to a no-op logger.
type recordingLogger struct {
	log.Logger

	name    string
	mu      *sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{
		Logger:  log.NewNoopLogger(),
		mu:      &sync.Mutex{},
		entries: &[]logEntry{},
	}
}

func (l *recordingLogger) Named(name string) log.Logger {
	child := *l
	child.name = name

	return &child
}

func (l *recordingLogger) Debug(msg string, fields ...log.Field) { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...log.Field)  { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...log.Field)  { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...log.Field) { l.record("error", msg, fields) }

func (l *recordingLogger) record(level, msg string, fields []log.Field) {
	entry := logEntry{level: level, logger: l.name, msg: msg, fields: make(map[string]any, len(fields))}
	for _, f := range fields {
		entry.fields[f.Key()] = f.Value()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	*l.entries = append(*l.entries, entry)
}

func (l *recordingLogger) withMessage(msg string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []logEntry

	for _, e := range *l.entries {
		if e.msg == msg {
			out = append(out, e)
		}
	}

	return out
}
