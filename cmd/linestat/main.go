/*
Linestat prints the line structure of a text file: for every line its index,
start offset, content length and delimiter, followed by the line content
truncated to the width of the terminal.

With -frames every line gets a line frame measuring the number of terminal
rows the line would occupy if wrapped. The vertical start and height of each
frame are printed in two additional columns.

Usage:

	linestat [-dot file] [-frames] [-v level] file

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/lineindex"
	"github.com/npillmayer/lineindex/textfile"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

func tracer() tracing.Trace {
	return tracing.Select("lineindex")
}

func main() {
	dotfile := flag.String("dot", "", "write the line tree in Graphviz DOT format to file")
	frames := flag.Bool("frames", false, "print the wrapped rows of every line")
	level := flag.String("v", "Error", "trace level [Debug|Info|Error]")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: linestat [flags] file\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(traceLevel(*level))
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	var opts []lineindex.Option
	if *frames {
		opts = append(opts, lineindex.WithFrameSync(), lineindex.WithEstimatedLineHeight(1))
	}
	doc, err := textfile.Load(flag.Arg(0), opts...)
	if err != nil {
		tracer().Errorf("linestat: %v", err)
		os.Exit(1)
	}
	if *dotfile != "" {
		if err := writeDot(doc.Manager(), *dotfile); err != nil {
			tracer().Errorf("linestat: %v", err)
			os.Exit(1)
		}
	}
	grapheme.SetupGraphemeClasses()
	p := newPrinter(os.Stdout, terminalWidth())
	p.frames = *frames
	if err := p.print(doc); err != nil {
		tracer().Errorf("linestat: %v", err)
		os.Exit(1)
	}
}

func traceLevel(s string) tracing.TraceLevel {
	switch strings.ToLower(s) {
	case "debug":
		return tracing.LevelDebug
	case "info":
		return tracing.LevelInfo
	}
	return tracing.LevelError
}

func writeDot(m *lineindex.Manager, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("cannot create DOT file: %w", err)
	}
	if err = m.LinesToDot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// terminalWidth checks whether stdout is a terminal, and if so returns its
// width. Otherwise it returns a default of 80.
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 80
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w < 30 {
		return 80
	}
	return w
}

type printer struct {
	w       io.Writer
	width   int
	frames  bool // print frame columns
	delim   *color.Color
	meta    *color.Color
	context *uax11.Context
}

func newPrinter(w io.Writer, width int) *printer {
	return &printer{
		w:       w,
		width:   width,
		delim:   color.New(color.FgBlue),
		meta:    color.New(color.FgHiBlack),
		context: uax11.ContextFromEnvironment(),
	}
}

const (
	prefixWidth = 27 // index, start, length and delimiter columns
	frameWidth  = 11 // y and height columns
)

func (p *printer) textWidth() int {
	if p.frames {
		return p.width - prefixWidth - frameWidth
	}
	return p.width - prefixWidth
}

func (p *printer) print(doc *textfile.Document) error {
	m := doc.Manager()
	if p.frames {
		if err := p.measure(doc); err != nil {
			return err
		}
	}
	for line := range m.Lines() {
		content, err := doc.Line(line.Index())
		if err != nil {
			return err
		}
		p.meta.Fprintf(p.w, "%6d %8d %5d ", line.Index(), line.Start(), line.Length())
		if p.frames {
			frame, ok := line.Frame()
			if !ok {
				return fmt.Errorf("line %d has no frame", line.Index())
			}
			p.meta.Fprintf(p.w, "%6.0f %3.0f ", m.Frames().Y(frame), m.Frames().Height(frame))
		}
		p.delim.Fprintf(p.w, "%-4s ", delimiterLabel(line.Delimiter()))
		fmt.Fprintln(p.w, p.truncate(content, p.textWidth()))
	}
	if p.frames {
		p.meta.Fprintf(p.w, "%d lines, %d bytes, %.0f rows\n", m.LineCount(), m.Length(), m.ContentHeight())
		return nil
	}
	p.meta.Fprintf(p.w, "%d lines, %d bytes\n", m.LineCount(), m.Length())
	return nil
}

// measure sets the height of every line frame to the number of rows the line
// occupies when wrapped at the text width.
func (p *printer) measure(doc *textfile.Document) error {
	m := doc.Manager()
	width := max(1, p.textWidth())
	for line := range m.Lines() {
		content, err := doc.Line(line.Index())
		if err != nil {
			return err
		}
		w := p.displayWidth(content)
		rows := max(1, (w+width-1)/width)
		m.SetHeight(line, float64(rows))
	}
	tracer().Debugf("linestat: %d lines occupy %.0f rows", m.LineCount(), m.ContentHeight())
	return nil
}

func (p *printer) displayWidth(s string) int {
	s = strings.ReplaceAll(s, "\t", " ")
	return uax11.StringWidth(grapheme.StringFromString(s), p.context)
}

// truncate shortens s to at most width display cells, measured as east asian
// width of its grapheme clusters. Clusters are never split.
func (p *printer) truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\t", " ")
	gstr := grapheme.StringFromString(s)
	if uax11.StringWidth(gstr, p.context) <= width {
		return s
	}
	var b strings.Builder
	w := 0
	for i := 0; i < gstr.Len(); i++ {
		cluster := gstr.Nth(i)
		cw := uax11.StringWidth(grapheme.StringFromString(cluster), p.context)
		if w+cw > width-1 {
			break
		}
		b.WriteString(cluster)
		w += cw
	}
	b.WriteString("…")
	return b.String()
}

func delimiterLabel(k lineindex.DelimiterKind) string {
	if k == lineindex.NoDelimiter {
		return "-"
	}
	return k.String()
}
