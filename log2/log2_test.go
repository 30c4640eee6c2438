package log2

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"runtime"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog2(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		fun  func(t testing.TB, l *Log) string
	}{
		{"caller/trace", func(t testing.TB, l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Tracef("frame params=%x", []byte{1, 2})
			return formatCallerShort(1) + "trace: frame params=0102\n"
		}},
		{"caller/debug", func(t testing.TB, l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Debugf("low level var=%d", 42)
			return formatCallerShort(1) + "debug: low level var=42\n"
		}},
		{"caller/info", func(t testing.TB, l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Infof("regular state=%s", "ok")
			return formatCallerShort(1) + "regular state=ok\n"
		}},
		{"caller/warning", func(t testing.TB, l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Warning("released unpressed key")
			return formatCallerShort(1) + "warning: released unpressed key\n"
		}},
		{"caller/error", func(t testing.TB, l *Log) string {
			l.SetFlags(log.Lshortfile)
			l.Errorf("problem")
			return formatCallerShort(1) + "error: problem\n"
		}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name+"/logger=nil", func(t *testing.T) {
			c.fun(t, nil)
		})
		t.Run(c.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewWriter(buf, LAll)
			expect := c.fun(t, l)
			assert.Equal(t, expect, buf.String())
		})
	}
}

func TestLevelFilter(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	l := NewWriter(buf, LInfo)
	l.SetFlags(0)
	l.Trace("hidden")
	l.Debug("hidden")
	l.Info("shown")
	l.Warning("shown")
	l.Error("shown")
	assert.Equal(t, "shown\nwarning: shown\nerror: shown\n", buf.String())

	buf.Reset()
	l.SetLevel(LOff)
	l.Error("hidden")
	assert.Equal(t, "", buf.String())
	assert.Equal(t, LOff, l.Level())

	l.SetLevel(LTrace)
	assert.True(t, l.Enabled(LTrace))
	assert.False(t, (*Log)(nil).Enabled(LError))
	assert.Nil(t, NewWriter(ioutil.Discard, LAll))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input     string
		expect    Level
		expectErr string
	}{
		{"error", LError, ""},
		{"warn", LWarning, ""},
		{"WARNING", LWarning, ""},
		{"info", LInfo, ""},
		{"debug", LDebug, ""},
		{" trace ", LTrace, ""},
		{"off", LOff, ""},
		{"verbose", LOff, `log level="verbose" (expected error|warn|info|debug|trace|off) not valid`},
	}
	for _, c := range cases {
		c := c
		t.Run(c.input, func(t *testing.T) {
			level, err := ParseLevel(c.input)
			if c.expectErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsNotValid(err))
				assert.Equal(t, c.expectErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expect, level)
			assert.Equal(t, c.expect, mustParse(t, level.String()))
		})
	}
}

func TestClone(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	l := NewWriter(buf, LError)
	l.SetFlags(0)
	l.SetPrefix("cec ")
	c := l.Clone(LDebug)
	c.Debug("x")
	l.Debug("y")
	assert.Equal(t, "cec debug: x\n", buf.String())
	assert.Nil(t, (*Log)(nil).Clone(LAll))
}

func TestFatalTest(t *testing.T) {
	t.Parallel()

	var got string
	l := NewFunc(func(format string, args ...interface{}) {}, LAll)
	l.fatalf = func(format string, args ...interface{}) { got = fmt.Sprintf(format, args...) }
	l.Fatal("adapter ", "gone")
	assert.Equal(t, "adapter gone", got)
}

func BenchmarkLog2(b *testing.B) {
	call := func(f Func) { f("example log with arg1=%s and arg2=%d", "example-arg", 12345678) }

	prepareStd := func(w io.Writer) Func { return log.New(w, "", 0).Printf }
	prepareMe := func(w io.Writer) Func { l := NewWriter(w, LInfo); l.SetFlags(0); return l.Infof }
	prepareMeSkipLevel := func(w io.Writer) Func { l := NewWriter(w, LError); l.SetFlags(0); return l.Infof }

	cases := []struct {
		name    string
		prepare func(w io.Writer) Func
	}{
		{"me-skiplevel", prepareMeSkipLevel},
		{"me", prepareMe},
		{"stdlib", prepareStd},
	}
	for _, c := range cases {
		fun := c.prepare(ioutil.Discard)
		if fun == nil {
			continue
		}
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 1; i <= b.N; i++ {
				call(fun)
			}
		})
	}
}

func mustParse(t testing.TB, s string) Level {
	l, err := ParseLevel(s)
	require.NoError(t, err)
	return l
}

func callerShort(depth int) (file string, line int) {
	var ok bool
	_, file, line, ok = runtime.Caller(depth)
	if !ok {
		file = "???"
		line = 0
	}

	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	file = short

	return
}

func formatCallerShort(depth int) string {
	file, line := callerShort(depth + 1)
	return fmt.Sprintf("%s:%d: ", file, line-1)
}
