package huffman

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// StreamWriter buffers everything written to it; Close runs the codec over
// the buffered input.
type StreamWriter struct {
	core *streamCore
}

// StreamReader yields the codec output once the paired writer is closed.
type StreamReader struct {
	core *streamCore
}

type streamCore struct {
	isInputBufferClosed bool
	cond                *sync.Cond
	lock                sync.Mutex
	inputBuffer         bytes.Buffer
	outputBuffer        bytes.Buffer
	err                 error
	process             func([]byte) ([]byte, error)
}

// NewStreamReaderAndWriter pairs a buffering writer with a reader that
// yields process(input) once the writer is closed.
func NewStreamReaderAndWriter(process func([]byte) ([]byte, error)) (io.ReadCloser, io.WriteCloser) {
	core := &streamCore{process: process}
	core.cond = sync.NewCond(&core.lock)
	return &StreamReader{core: core}, &StreamWriter{core: core}
}

// NewCompressionReaderAndWriter returns a pair that encodes with c.
func NewCompressionReaderAndWriter(c *Codec) (io.ReadCloser, io.WriteCloser) {
	return NewStreamReaderAndWriter(c.Encode)
}

// NewDecompressionReaderAndWriter returns a pair that decodes with c.
func NewDecompressionReaderAndWriter(c *Codec) (io.ReadCloser, io.WriteCloser) {
	return NewStreamReaderAndWriter(c.Decode)
}

func (sw *StreamWriter) Write(data []byte) (int, error) {
	sw.core.lock.Lock()
	defer sw.core.lock.Unlock()
	if sw.core.isInputBufferClosed {
		return 0, errors.New("huffman: write after close")
	}
	return sw.core.inputBuffer.Write(data)
}

func (sw *StreamWriter) Close() error {
	sw.core.lock.Lock()
	defer sw.core.lock.Unlock()
	if sw.core.isInputBufferClosed {
		return sw.core.err
	}
	sw.core.isInputBufferClosed = true
	defer sw.core.cond.Broadcast()
	out, err := sw.core.process(sw.core.inputBuffer.Bytes())
	sw.core.inputBuffer.Reset()
	if err != nil {
		sw.core.err = err
		return err
	}
	_, err = sw.core.outputBuffer.Write(out)
	return err
}

// Read blocks until the paired writer has been closed.
func (sr *StreamReader) Read(data []byte) (int, error) {
	sr.core.lock.Lock()
	defer sr.core.lock.Unlock()
	for !sr.core.isInputBufferClosed {
		sr.core.cond.Wait()
	}
	if sr.core.err != nil {
		return 0, sr.core.err
	}
	return sr.core.outputBuffer.Read(data)
}

func (sr *StreamReader) Close() error {
	sr.core.lock.Lock()
	defer sr.core.lock.Unlock()
	sr.core.outputBuffer.Reset()
	return nil
}
