package encio_test

import (
	"errors"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/hsstream/encio"
)

func TestNewError(t *testing.T) {
	err := encio.NewError(encio.ErrUnsupported, "reading from null", "")

	var encErr encio.Error
	td.CmpTrue(t, errors.As(err, &encErr))
	td.Cmp(t, encErr.Caller, td.HasSuffix("TestNewError"))
	td.Cmp(t, err.Error(), td.Re(`TestNewError: unsupported operation \(reading from null\)$`))
	td.CmpTrue(t, errors.Is(err, encio.ErrUnsupported))

	err = encio.NewError(encio.ErrClosed, "", "File.Read")
	td.CmpString(t, err, "File.Read: stream closed")
}

func TestNewIOError(t *testing.T) {
	err := encio.NewIOError(encio.ErrMalformed, "bad count")
	td.CmpString(t, err, "bad count: malformed")
	td.Cmp(t, err, td.Isa(encio.IOError{}))
	td.CmpTrue(t, errors.Is(err, encio.ErrMalformed))
	td.CmpFalse(t, errors.Is(err, encio.ErrReadPastEnd))

	err = encio.NewIOError(encio.ErrReadPastEnd, "")
	td.Cmp(t, err.Error(), td.Re(`^in .*TestNewIOError: read past end$`))

	td.CmpString(t, encio.IOError{Err: encio.ErrClosed}, "stream closed")

	// a nil error is a bug in the caller
	err = encio.NewIOError(nil, "oops")
	td.Cmp(t, err, td.Isa(encio.Error{}))
}

func TestGetCaller(t *testing.T) {
	td.Cmp(t, encio.GetCaller(0), td.HasSuffix("TestGetCaller"))
	td.Cmp(t, func() string { return encio.GetCaller(1) }(), td.HasSuffix("TestGetCaller"))
}
