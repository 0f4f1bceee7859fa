// Package filecopy implements the single-file copy primitives that
// pkg/fsmore's directory engine treats as external collaborators: Copy and
// CopyWithProgress. Both copy file content (never metadata such as
// permissions, ownership, or extended attributes — preserving those is a
// non-goal of the surrounding directory engine).
package filecopy

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// OnCollision governs what Copy/CopyWithProgress do when the destination
// file already exists.
type OnCollision uint8

const (
	// Abort fails the copy if the destination file already exists.
	Abort OnCollision = iota
	// Overwrite replaces the destination file's content.
	Overwrite
	// Skip leaves the destination file untouched and reports Skipped.
	Skip
)

// Outcome describes what Copy/CopyWithProgress actually did.
type Outcome uint8

const (
	// Created indicates the destination file did not exist and was
	// created.
	Created Outcome = iota
	// Overwritten indicates the destination file existed and was
	// overwritten.
	Overwritten
	// Skipped indicates the destination file existed and OnCollision was
	// Skip, so no bytes were copied.
	Skipped
)

// Options configures Copy.
type Options struct {
	OnCollision OnCollision
}

// ProgressOptions configures CopyWithProgress.
type ProgressOptions struct {
	OnCollision OnCollision
	// ReadBufferSize is the buffer size used for reading the source file.
	// Defaults to 64 KiB if zero.
	ReadBufferSize int
	// WriteBufferSize is the buffer size used for writing the destination
	// file. Defaults to 64 KiB if zero.
	WriteBufferSize int
	// ProgressUpdateByteInterval is the minimum number of bytes written
	// between two progress callback invocations. Defaults to 64 KiB if
	// zero. The actual interval may exceed this minimum.
	ProgressUpdateByteInterval uint64
}

const defaultBufferSize = 64 * 1024

func destinationExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Copy copies source to destination, delegating the actual byte transfer to
// os's own copy-on-write-aware routines where possible.
func Copy(source, destination string, options Options) (Outcome, uint64, error) {
	exists, err := destinationExists(destination)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to check destination")
	}
	if exists {
		switch options.OnCollision {
		case Abort:
			return 0, 0, errors.Errorf("destination file already exists: %s", destination)
		case Skip:
			return Skipped, 0, nil
		}
	}

	bytesCopied, err := copyFileContents(source, destination)
	if err != nil {
		return 0, 0, err
	}

	if exists {
		return Overwritten, bytesCopied, nil
	}
	return Created, bytesCopied, nil
}

func copyFileContents(source, destination string) (uint64, error) {
	input, err := os.Open(source)
	if err != nil {
		return 0, errors.Wrap(err, "unable to open source file")
	}
	defer input.Close()

	output, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, errors.Wrap(err, "unable to open destination file")
	}

	written, err := io.Copy(output, input)
	if err != nil {
		output.Close()
		return 0, errors.Wrap(err, "unable to copy file contents")
	}
	if err := output.Close(); err != nil {
		return 0, errors.Wrap(err, "unable to close destination file")
	}
	return uint64(written), nil
}

// CopyWithProgress copies source to destination, invoking progressHandler
// with byte-transfer milestones at least ProgressUpdateByteInterval bytes
// apart, and exactly once more after the final byte is written (with
// bytesFinished == bytesTotal). Unlike Copy, this function performs the
// transfer itself (open, buffer, io.Copy) rather than delegating, since
// progress reporting requires visibility into the byte stream.
func CopyWithProgress(source, destination string, options ProgressOptions, progressHandler func(bytesFinished, bytesTotal uint64)) (Outcome, uint64, error) {
	exists, err := destinationExists(destination)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to check destination")
	}
	if exists {
		switch options.OnCollision {
		case Abort:
			return 0, 0, errors.Errorf("destination file already exists: %s", destination)
		case Skip:
			return Skipped, 0, nil
		}
	}

	readBufferSize := options.ReadBufferSize
	if readBufferSize <= 0 {
		readBufferSize = defaultBufferSize
	}
	writeBufferSize := options.WriteBufferSize
	if writeBufferSize <= 0 {
		writeBufferSize = defaultBufferSize
	}
	progressInterval := options.ProgressUpdateByteInterval
	if progressInterval == 0 {
		progressInterval = defaultBufferSize
	}

	sourceInfo, err := os.Stat(source)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to stat source file")
	}
	bytesTotal := uint64(sourceInfo.Size())

	input, err := os.Open(source)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to open source file")
	}
	defer input.Close()
	bufferedInput := bufio.NewReaderSize(input, readBufferSize)

	output, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, 0, errors.Wrap(err, "unable to open destination file")
	}

	progressWriter := &progressWriter{
		underlying:     output,
		handler:        progressHandler,
		updateInterval: progressInterval,
		bytesTotal:     bytesTotal,
	}
	bufferedOutput := bufio.NewWriterSize(progressWriter, writeBufferSize)

	bytesCopied, err := io.Copy(bufferedOutput, bufferedInput)
	if err != nil {
		output.Close()
		return 0, 0, errors.Wrap(err, "unable to copy file contents")
	}
	if err := bufferedOutput.Flush(); err != nil {
		output.Close()
		return 0, 0, errors.Wrap(err, "unable to flush destination file")
	}
	if err := output.Close(); err != nil {
		return 0, 0, errors.Wrap(err, "unable to close destination file")
	}

	progressWriter.bytesWritten = uint64(bytesCopied)
	progressHandler(progressWriter.bytesWritten, progressWriter.bytesWritten)

	if exists {
		return Overwritten, uint64(bytesCopied), nil
	}
	return Created, uint64(bytesCopied), nil
}

// progressWriter wraps an io.Writer, invoking handler every time at least
// updateInterval new bytes have been written since the last invocation.
type progressWriter struct {
	underlying     io.Writer
	handler        func(bytesFinished, bytesTotal uint64)
	updateInterval uint64
	bytesTotal     uint64
	bytesWritten   uint64
	lastReportedAt uint64
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n, err := w.underlying.Write(p)
	w.bytesWritten += uint64(n)
	if w.bytesWritten-w.lastReportedAt >= w.updateInterval {
		w.lastReportedAt = w.bytesWritten
		w.handler(w.bytesWritten, w.bytesTotal)
	}
	return n, err
}
