package analyzer

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/ironsheep/hextech-overlay/internal/capture"
	"github.com/ironsheep/hextech-overlay/internal/ocr"
)

// arena holds one worker's private handles.
type arena struct {
	newCapturer   capture.Factory
	newRecognizer ocr.Factory

	capturer   capture.Capturer
	recognizer ocr.Recognizer
}

func (ar *arena) capture() (capture.Capturer, error) {
	if ar.capturer == nil {
		if ar.newCapturer == nil {
			return nil, fmt.Errorf("no capture source configured")
		}
		c, err := ar.newCapturer()
		if err != nil {
			return nil, err
		}
		ar.capturer = c
	}
	return ar.capturer, nil
}

func (ar *arena) recognize() (ocr.Recognizer, error) {
	if ar.recognizer == nil {
		if ar.newRecognizer == nil {
			return nil, fmt.Errorf("no recognizer configured")
		}
		r, err := ar.newRecognizer()
		if err != nil {
			return nil, err
		}
		ar.recognizer = r
	}
	return ar.recognizer, nil
}

// release closes and forgets both handles.
func (ar *arena) release() error {
	var first error
	for _, h := range []any{ar.capturer, ar.recognizer} {
		if c, ok := h.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	ar.capturer, ar.recognizer = nil, nil
	return first
}

type worker struct {
	id    int
	a     *Analyzer
	arena arena
}

func (w *worker) run() {
	defer w.a.wg.Done()
	defer func() {
		if err := w.arena.release(); err != nil {
			w.a.log.Warn().Err(err).Int("worker", w.id).Msg("failed to release worker handles")
		}
	}()

	for t := range w.a.tasks {
		t.reply <- w.safeAnalyze(t)
	}
}

// safeAnalyze turns a panic into that region's error result and drops the
// worker's handles so the next task starts clean.
func (w *worker) safeAnalyze(t task) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			w.a.log.Error().
				Str("region", t.region.Key).
				Int("worker", w.id).
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Msg("region task panicked")
			_ = w.arena.release()
			res = failed(t.region.Key, ErrPanic, fmt.Errorf("%v", p))
		}
	}()
	return w.a.analyzeRegion(&w.arena, t.region, t.hero)
}
