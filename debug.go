package iotstream

import (
	"fmt"
	"io"
	"os"

	"github.com/ecotrack/iotstream/internal/sync"
	"github.com/gookit/color"
	"github.com/rs/zerolog"
	"github.com/xiegeo/coloredgoroutine"
)

type (
	Debugger interface {
		Log(main string, v ...any)

		// Warn logs something the caller probably didn't intend,
		// such as sending on a connection that isn't open.
		Warn(main string, v ...any)

		WithContext(context string) Debugger
		WithDynamicContext(context string, dynamicContext func() string) Debugger
	}

	noopDebugger struct{}

	printDebugger struct {
		stdout         io.Writer
		context        string
		dynamicContext func() string
	}

	zerologDebugger struct {
		logger         zerolog.Logger
		dynamicContext func() string
	}
)

func NewNoopDebugger() Debugger {
	return noopDebugger{}
}

func (d noopDebugger) Log(main string, _v ...any) {}

func (d noopDebugger) Warn(main string, _v ...any) {}

func (d noopDebugger) WithContext(context string) Debugger { return d }

func (d noopDebugger) WithDynamicContext(context string, _ func() string) Debugger { return d }

// NewPrintDebugger prints to stdout, coloring each goroutine differently.
func NewPrintDebugger() Debugger {
	return &printDebugger{stdout: coloredgoroutine.Colors(os.Stdout)}
}

var printMu sync.Mutex

func (d *printDebugger) Log(main string, _v ...any) {
	d.print("", main, _v)
}

func (d *printDebugger) Warn(main string, _v ...any) {
	d.print(color.Yellow.Sprint("WARN"), main, _v)
}

// Print each field, adding colon if there's a subsequent field.
func (d *printDebugger) print(level string, main string, _v []any) {
	printMu.Lock()
	defer printMu.Unlock()

	fields := make([]any, 0, 4+len(_v))
	for _, f := range []string{level, d.context} {
		if len(f) != 0 {
			fields = append(fields, f)
		}
	}
	if d.dynamicContext != nil {
		if dc := d.dynamicContext(); len(dc) != 0 {
			fields = append(fields, dc)
		}
	}
	if len(main) != 0 {
		fields = append(fields, main)
	}
	fields = append(fields, _v...)

	for i, f := range fields {
		if i != 0 {
			fmt.Fprint(d.stdout, ": ")
		}
		fmt.Fprint(d.stdout, f)
	}
	fmt.Fprint(d.stdout, "\n")
	os.Stdout.Sync()
}

func (d printDebugger) WithContext(context string) Debugger {
	d.context = context
	return &d
}

func (d printDebugger) WithDynamicContext(context string, dynamicContext func() string) Debugger {
	d.context = context
	d.dynamicContext = dynamicContext
	return &d
}

// NewZerologDebugger logs through logger: Log at debug level, Warn at warn level.
func NewZerologDebugger(logger zerolog.Logger) Debugger {
	return &zerologDebugger{logger: logger}
}

func (d *zerologDebugger) Log(main string, v ...any) {
	d.write(d.logger.Debug(), main, v)
}

func (d *zerologDebugger) Warn(main string, v ...any) {
	d.write(d.logger.Warn(), main, v)
}

func (d *zerologDebugger) write(e *zerolog.Event, main string, v []any) {
	if e == nil {
		return
	}
	if d.dynamicContext != nil {
		e = e.Str("state", d.dynamicContext())
	}
	values := make([]any, 0, len(v))
	for _, x := range v {
		if err, ok := x.(error); ok {
			e = e.Err(err)
		} else {
			values = append(values, x)
		}
	}
	if len(values) != 0 {
		e = e.Interface("values", values)
	}
	e.Msg(main)
}

func (d zerologDebugger) WithContext(context string) Debugger {
	d.logger = d.logger.With().Str("context", context).Logger()
	return &d
}

func (d zerologDebugger) WithDynamicContext(context string, dynamicContext func() string) Debugger {
	d.logger = d.logger.With().Str("context", context).Logger()
	d.dynamicContext = dynamicContext
	return &d
}
