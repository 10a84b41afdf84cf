package plugins

import (
	"fmt"
	"sync"

	kerrors "github.com/passyvault/passy/internal/errors"
)

// fakeLibrary is an in-memory Library whose exports are Go functions.
type fakeLibrary struct {
	mu      sync.Mutex
	funcs   map[string]func(data, states string) *string
	lookups map[string]int
	calls   []fakeCall
	freed   int
	closed  bool
}

type fakeCall struct {
	Symbol string
	Data   string
	States string
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		funcs:   make(map[string]func(data, states string) *string),
		lookups: make(map[string]int),
	}
}

// on registers command as an export returning a fixed result.
func (l *fakeLibrary) on(command string, fn func(data, states string) *string) *fakeLibrary {
	l.funcs[SymbolName(command)] = fn
	return l
}

func (l *fakeLibrary) Lookup(symbol string) (Export, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lookups[symbol]++
	fn, ok := l.funcs[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrSymbolNotFound, symbol)
	}
	return &fakeExport{lib: l, symbol: symbol, fn: fn}, nil
}

func (l *fakeLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func (l *fakeLibrary) callCount(symbol string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, c := range l.calls {
		if c.Symbol == symbol {
			n++
		}
	}
	return n
}

type fakeExport struct {
	lib    *fakeLibrary
	symbol string
	fn     func(data, states string) *string
}

func (e *fakeExport) Call(data, states string) (string, error) {
	e.lib.mu.Lock()
	e.lib.calls = append(e.lib.calls, fakeCall{Symbol: e.symbol, Data: data, States: states})
	e.lib.mu.Unlock()

	res := e.fn(data, states)
	if res == nil {
		return "", errNullResult
	}

	e.lib.mu.Lock()
	e.lib.freed++
	e.lib.mu.Unlock()
	return *res, nil
}

func ret(s string) func(string, string) *string {
	return func(string, string) *string { return &s }
}

func echo(data, _ string) *string { return &data }

// fakeOpener hands out libraries by path. Unknown paths fail to open.
type fakeOpener struct {
	mu     sync.Mutex
	libs   map[string]*fakeLibrary
	opened []string
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{libs: make(map[string]*fakeLibrary)}
}

func (o *fakeOpener) add(path string, lib *fakeLibrary) {
	o.libs[path] = lib
}

func (o *fakeOpener) Open(path string) (Library, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, path)
	lib, ok := o.libs[path]
	if !ok {
		return nil, fmt.Errorf("failed to import lib %s: no such file", path)
	}
	return lib, nil
}
