package stream

import (
	"bufio"
	"io"
	"strings"
)

// Decoder reads frames from an SSE byte stream. It is a pull iterator:
// callers invoke Next until it returns io.EOF.
//
// The decoder is independent of how the transport chunks the stream; an
// event split across arbitrary read boundaries is surfaced only once its
// blank-line terminator has arrived. Per the SSE spec, multiple data lines
// are joined with newlines, comment lines (leading ':') are ignored, and
// events without an explicit type default to "message". Events with types
// this package does not know are skipped so older clients tolerate newer
// servers.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next frame. It blocks until a complete event is
// available, the stream ends (io.EOF), or reading fails. A stream that ends
// in the middle of an event returns io.ErrUnexpectedEOF.
func (d *Decoder) Next() (Frame, error) {
	for {
		eventType, data, err := d.readEvent()
		if err != nil {
			return Frame{}, err
		}

		frame, ok, err := parseFrame(eventType, data)
		if err != nil {
			return Frame{}, err
		}
		if !ok {
			continue // unknown event type
		}
		return frame, nil
	}
}

// readEvent accumulates lines until a blank-line terminator completes one
// event, returning its type and joined data payload.
func (d *Decoder) readEvent() (string, []byte, error) {
	var (
		eventType string
		dataLines []string
		started   bool
	)

	for {
		line, err := d.readLine()
		if err != nil {
			if err == io.EOF && started {
				return "", nil, io.ErrUnexpectedEOF
			}
			return "", nil, err
		}

		switch {
		case line == "":
			if !started {
				continue // stray blank line between events
			}
			if eventType == "" {
				eventType = "message" // SSE spec default
			}
			return eventType, []byte(strings.Join(dataLines, "\n")), nil

		case strings.HasPrefix(line, ":"):
			// comment, ignored

		case strings.HasPrefix(line, "event:"):
			started = true
			eventType = strings.TrimPrefix(strings.TrimPrefix(line, "event:"), " ")

		case strings.HasPrefix(line, "data:"):
			started = true
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))

		default:
			// Unknown field names (id:, retry:, ...) are ignored per spec.
			started = true
		}
	}
}

// readLine reads one line, tolerating LF and CRLF endings. A final line
// without a terminator still returns io.EOF since an unterminated line can
// never complete an event.
func (d *Decoder) readLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
