package fileinput

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Location names a line in an Input file.
type Location struct {
	Name string
	Line int
}

// Line is one line of program text along with where it came from.
type Line struct {
	Location
	Text string
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Text) }

// Input implements sequential line reading through a Queue of one or more
// input streams. The last line read is retained to facilitate user feedback.
type Input struct {
	Queue []io.Reader
	Last  Line

	br   *bufio.Reader
	cur  io.Reader
	name string
	line int
}

// ReadLine reads the next line, without its line ending, moving on to the
// next queued stream when the current one is exhausted. Returns io.EOF after
// the final stream.
func (in *Input) ReadLine() (Line, error) {
	for {
		if in.br == nil && !in.nextIn() {
			return Line{}, io.EOF
		}

		text, err := in.br.ReadString('\n')
		if len(text) > 0 {
			in.line++
			in.Last = Line{
				Location: Location{Name: in.name, Line: in.line},
				Text:     strings.TrimRight(text, "\r\n"),
			}
			if err == io.EOF {
				in.close()
			}
			return in.Last, nil
		}

		if err == io.EOF {
			in.close()
			continue
		}
		if err != nil {
			return Line{}, err
		}
	}
}

// Close closes the current stream and any still queued, if they are closable.
func (in *Input) Close() (err error) {
	if cerr := in.close(); err == nil {
		err = cerr
	}
	for _, r := range in.Queue {
		if cl, ok := r.(io.Closer); ok {
			if cerr := cl.Close(); err == nil {
				err = cerr
			}
		}
	}
	in.Queue = nil
	return err
}

func (in *Input) close() (err error) {
	if cl, ok := in.cur.(io.Closer); ok {
		err = cl.Close()
	}
	in.cur, in.br = nil, nil
	return err
}

func (in *Input) nextIn() bool {
	if len(in.Queue) == 0 {
		return false
	}
	r := in.Queue[0]
	in.Queue = in.Queue[1:]
	in.cur = r
	in.br = bufio.NewReader(r)
	in.name = nameOf(r)
	in.line = 0
	return true
}

// NamedReader attaches a name to an io.Reader, for use in Location.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }

func (nr namedReader) Close() error {
	if cl, ok := nr.Reader.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
