package formats

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/g3n/engine/loader/obj"
)

// ErrMalformed is reported when the decoder rejects input it cannot recover from.
var ErrMalformed = errors.New("malformed input")

// ParseError reports a malformed line in a text format. Line is 0 when the
// decoder did not report one.
type ParseError struct {
	Format string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("%s line %d: %v", e.Format, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// absentIndex is the decoder's marker for a corner without a texcoord or normal.
const absentIndex = math.MaxUint32

// decoderDefaultMaterial is the name the decoder gives faces outside any usemtl.
const decoderDefaultMaterial = "internal default"

// decode runs the Wavefront decoder. Decoder failures, including panics on
// statements it does not guard against, come back as a *ParseError for format.
func decode(format string, objSrc, mtlSrc []byte) (dec *obj.Decoder, err error) {
	defer func() {
		if r := recover(); r != nil {
			dec = nil
			err = &ParseError{Format: format, Err: fmt.Errorf("%w: %v", ErrMalformed, r)}
		}
	}()

	dec, err = obj.DecodeReader(bytes.NewReader(objSrc), bytes.NewReader(mtlSrc))
	if err != nil {
		return nil, &ParseError{Format: format, Line: errorLine(err), Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	return dec, nil
}

// errorLine extracts the "in line:N" suffix the decoder puts on its errors.
func errorLine(err error) int {
	msg := err.Error()
	i := strings.LastIndex(msg, "line:")
	if i < 0 {
		return 0
	}
	n, convErr := strconv.Atoi(strings.TrimSpace(msg[i+len("line:"):]))
	if convErr != nil {
		return 0
	}
	return n
}

// normalize prepares source text for the decoder: backslash continuations are
// joined (a trailing one at end of input is flushed), inline comments are cut
// and nameless o/g statements get a generated name. Joined lines are padded
// with blank lines so decoder line numbers still match the source.
func normalize(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))

	var pending strings.Builder
	consumed := 0
	groups := 0

	flush := func() {
		line := pending.String()
		pending.Reset()

		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if f := strings.Fields(line); len(f) > 0 && (f[0] == "o" || f[0] == "g") {
			if len(f) == 1 {
				line = fmt.Sprintf("%s group%d", f[0], groups)
			}
			groups++
		}

		out.WriteString(line)
		out.WriteByte('\n')
		for ; consumed > 0; consumed-- {
			out.WriteByte('\n')
		}
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for _, text := range lines {
		if strings.HasSuffix(text, "\\") {
			if pending.Len() > 0 {
				consumed++
			}
			pending.WriteString(strings.TrimSuffix(text, "\\"))
			pending.WriteByte(' ')
			continue
		}
		if pending.Len() > 0 {
			consumed++
		}
		pending.WriteString(text)
		flush()
	}
	if pending.Len() > 0 {
		flush()
	}
	return out.Bytes()
}
