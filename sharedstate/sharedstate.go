package sharedstate

import (
	"fmt"

	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/stream"
)

// SharedState is a named, ordered collection of GenericVars.
//
// Its wire format is the name as a short safe string, an int32 variable count,
// a one-byte server-may-delete flag and then each variable in order.
type SharedState struct {
	Name            string
	ServerMayDelete bool
	vars            []GenericVar
}

// New returns an empty SharedState called name.
func New(name string) *SharedState {
	return &SharedState{Name: name}
}

// AddVar appends v.
func (s *SharedState) AddVar(v GenericVar) {
	s.vars = append(s.vars, v)
}

// Var returns the i'th variable.
func (s *SharedState) Var(i int) GenericVar {
	return s.vars[i]
}

// Lookup returns the first variable called name.
func (s *SharedState) Lookup(name string) (GenericVar, bool) {
	for _, v := range s.vars {
		if v.Name == name {
			return v, true
		}
	}
	return GenericVar{}, false
}

// NumVars returns the number of variables.
func (s *SharedState) NumVars() int {
	return len(s.vars)
}

// Reset removes all variables.
func (s *SharedState) Reset() {
	s.vars = nil
}

// Copy replaces s with a copy of o. o may be s.
func (s *SharedState) Copy(o *SharedState) {
	vars := o.vars
	s.Reset()
	s.Name = o.Name
	s.ServerMayDelete = o.ServerMayDelete
	s.vars = append(s.vars, vars...)
}

// Write writes s to c.
func (s *SharedState) Write(c *stream.Codec) error {
	if err := c.WriteSafeString(s.Name); err != nil {
		return err
	}
	if err := c.WriteLEInt32(int32(len(s.vars))); err != nil {
		return err
	}
	if err := c.WriteBool(s.ServerMayDelete); err != nil {
		return err
	}

	for i := range s.vars {
		if err := s.vars[i].Write(c); err != nil {
			return err
		}
	}
	return nil
}

// minVarSize is the smallest encoding of a GenericVar; an empty name and TypeNone.
const minVarSize = 3

// Read replaces s with a SharedState read from c.
func (s *SharedState) Read(c *stream.Codec) (err error) {
	s.Reset()

	if s.Name, err = c.ReadSafeString(); err != nil {
		return err
	}
	num, err := c.ReadLEInt32()
	if err != nil {
		return err
	}
	if s.ServerMayDelete, err = c.ReadBool(); err != nil {
		return err
	}

	if num < 0 || int64(num)*minVarSize > stream.SizeLeft(c.Stream()) {
		return encio.NewIOError(
			encio.ErrMalformed,
			fmt.Sprintf("shared state %q claims %v variables with %v bytes left", s.Name, num, stream.SizeLeft(c.Stream())),
		)
	}

	s.vars = make([]GenericVar, num)
	for i := range s.vars {
		if err := s.vars[i].Read(c); err != nil {
			s.vars = s.vars[:i]
			return err
		}
	}
	return nil
}
