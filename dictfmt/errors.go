package dictfmt

import "errors"

// ErrIO marks a failure that originated in an underlying io.Writer or
// io.Reader/ReaderAt call (short write, disk full, mmap open failure,
// and so on) rather than in the blob's own structure. Builder and reader
// callers that want to distinguish "the medium failed" from "the bytes
// are malformed" can check errors.Is(err, ErrIO).
var ErrIO = errors.New("dictfmt: io failure")
