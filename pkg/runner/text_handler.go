package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// TextHandler reads command lines and writes frames.
// Reads happen on a background pump so that Input honours context cancellation.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Prompt   string
	MaxInput int

	inputChan chan inputResult
	startOnce sync.Once

	// done stops the pump; stopped is closed once it has returned.
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// NewTextHandler creates a handler reading r and writing w.
func NewTextHandler(r io.Reader, w io.Writer) *TextHandler {
	return &TextHandler{
		Reader:   bufio.NewReader(r),
		Writer:   w,
		Prompt:   "> ",
		MaxInput: maxInputSizeFromEnv(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines until EOF or Close. A line read while nobody waits in
// Input stays pending for the next call, so a run restarted on the same
// handler does not lose it.
func (h *TextHandler) pump() {
	defer close(h.stopped)
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" && !h.send(inputResult{text: text}) {
			return
		}
		if err != nil {
			if err != io.EOF {
				h.send(inputResult{err: err})
			}
			return
		}
	}
}

func (h *TextHandler) send(res inputResult) bool {
	select {
	case h.inputChan <- res:
		return true
	case <-h.done:
		return false
	}
}

// Close stops the input pump. A read already blocked on the underlying
// reader completes, is discarded, and the pump returns. Input returns io.EOF
// afterwards.
func (h *TextHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Output writes one frame.
func (h *TextHandler) Output(frame string) {
	fmt.Fprintln(h.Writer, strings.TrimRight(frame, "\n"))
}

// Input returns the next sanitized line. Oversized or malformed lines are
// reported and skipped. It returns io.EOF once the reader is exhausted.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-h.done:
			return "", io.EOF
		default:
			fmt.Fprint(h.Writer, h.Prompt)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-h.done:
			return "", io.EOF
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := sanitize(res.text, h.MaxInput)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}
