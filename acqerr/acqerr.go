// Package acqerr defines the closed set of failures resource acquisition can
// report. Every network, filesystem and parsing boundary converts its error
// into an *Error of the matching Kind before returning it.
package acqerr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindTransport Kind = iota + 1
	KindIO
	KindDecode
	KindDeserialize
	KindVersionNotFound
	KindResourceNotReady
	KindInvalidDownload
	KindContract
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport failure"
	case KindIO:
		return "local i/o failure"
	case KindDecode:
		return "text decoding failure"
	case KindDeserialize:
		return "manifest deserialization failure"
	case KindVersionNotFound:
		return "version not found"
	case KindResourceNotReady:
		return "resource not ready"
	case KindInvalidDownload:
		return "invalid download"
	case KindContract:
		return "configuration contract violation"
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Error is the tagged error returned by every acquisition operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

var (
	ErrTransport        = &Error{Kind: KindTransport}
	ErrIO               = &Error{Kind: KindIO}
	ErrDecode           = &Error{Kind: KindDecode}
	ErrDeserialize      = &Error{Kind: KindDeserialize}
	ErrVersionNotFound  = &Error{Kind: KindVersionNotFound}
	ErrResourceNotReady = &Error{Kind: KindResourceNotReady}
	ErrInvalidDownload  = &Error{Kind: KindInvalidDownload}
	ErrContract         = &Error{Kind: KindContract}
)

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		// already classified further down, keep the original kind
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

func Transport(op string, err error) error   { return wrap(KindTransport, op, err) }
func IO(op string, err error) error          { return wrap(KindIO, op, err) }
func Decode(op string, err error) error      { return wrap(KindDecode, op, err) }
func Deserialize(op string, err error) error { return wrap(KindDeserialize, op, err) }

func VersionNotFound(id string) error {
	return &Error{Kind: KindVersionNotFound, Op: fmt.Sprintf("find version %q", id)}
}

func ResourceNotReady(what string) error {
	return &Error{Kind: KindResourceNotReady, Op: what}
}

func InvalidDownload(op string) error {
	return &Error{Kind: KindInvalidDownload, Op: op}
}

func Contract(format string, a ...any) error {
	return &Error{Kind: KindContract, Err: fmt.Errorf(format, a...)}
}
