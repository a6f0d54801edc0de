// Package sharedstate implements named collections of typed variables that are synchronised between peers,
// and their binary format.
package sharedstate

import (
	"fmt"

	"github.com/stewi1014/hsstream/encio"
	"github.com/stewi1014/hsstream/stream"
)

// Type identifies the type of a GenericVar's value on the wire.
type Type uint8

// Value types. The numbering is part of the wire format.
const (
	TypeInt    Type = iota // int32
	TypeFloat              // float32
	TypeBool               // bool
	TypeString             // string, as a short safe string
	TypeChar               // byte
	TypeAny                // string, as a short safe string
	TypeUInt               // uint32
	TypeDouble             // float64
	TypeNone   Type = 0xff // no value
)

// String implements fmt.Stringer
func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeChar:
		return "char"
	case TypeAny:
		return "any"
	case TypeUInt:
		return "uint"
	case TypeDouble:
		return "double"
	case TypeNone:
		return "none"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// GenericVar is a named value of one of the Types.
// Value holds the Go type listed against Type, or nil for TypeNone.
type GenericVar struct {
	Name  string
	Type  Type
	Value any
}

// Int returns a TypeInt variable.
func Int(name string, v int32) GenericVar { return GenericVar{name, TypeInt, v} }

// Float returns a TypeFloat variable.
func Float(name string, v float32) GenericVar { return GenericVar{name, TypeFloat, v} }

// Bool returns a TypeBool variable.
func Bool(name string, v bool) GenericVar { return GenericVar{name, TypeBool, v} }

// String returns a TypeString variable.
func String(name string, v string) GenericVar { return GenericVar{name, TypeString, v} }

// Char returns a TypeChar variable holding a single byte.
func Char(name string, v byte) GenericVar { return GenericVar{name, TypeChar, v} }

// Any returns a TypeAny variable. Its value is carried as a string.
func Any(name string, v string) GenericVar { return GenericVar{name, TypeAny, v} }

// UInt returns a TypeUInt variable.
func UInt(name string, v uint32) GenericVar { return GenericVar{name, TypeUInt, v} }

// Double returns a TypeDouble variable.
func Double(name string, v float64) GenericVar { return GenericVar{name, TypeDouble, v} }

// None returns a TypeNone variable, which has no value.
func None(name string) GenericVar { return GenericVar{name, TypeNone, nil} }

// String returns the variable as name=value.
func (v GenericVar) String() string {
	if v.Type == TypeNone {
		return v.Name + "=<none>"
	}
	return fmt.Sprintf("%v=%v", v.Name, v.Value)
}

// valid reports if Value holds the Go type Type calls for.
func (v GenericVar) valid() bool {
	var ok bool
	switch v.Type {
	case TypeInt:
		_, ok = v.Value.(int32)
	case TypeFloat:
		_, ok = v.Value.(float32)
	case TypeBool:
		_, ok = v.Value.(bool)
	case TypeString, TypeAny:
		_, ok = v.Value.(string)
	case TypeChar:
		_, ok = v.Value.(byte)
	case TypeUInt:
		_, ok = v.Value.(uint32)
	case TypeDouble:
		_, ok = v.Value.(float64)
	case TypeNone:
		ok = v.Value == nil
	}
	return ok
}

// Write writes the name, type byte and value.
// Nothing is written if Value doesn't match Type.
func (v GenericVar) Write(c *stream.Codec) error {
	if !v.valid() {
		return encio.NewError(
			encio.ErrMalformed,
			fmt.Sprintf("variable %q of type %v holds %T", v.Name, v.Type, v.Value),
			"",
		)
	}

	if err := c.WriteSafeString(v.Name); err != nil {
		return err
	}
	if err := c.WriteByte(byte(v.Type)); err != nil {
		return err
	}

	switch val := v.Value.(type) {
	case int32:
		return c.WriteLEInt32(val)
	case float32:
		return c.WriteLEFloat(val)
	case bool:
		return c.WriteBool(val)
	case string:
		return c.WriteSafeString(val)
	case byte:
		return c.WriteByte(val)
	case uint32:
		return c.WriteLE32(val)
	case float64:
		return c.WriteLEDouble(val)
	default:
		return nil
	}
}

// Read replaces v with a variable read from c.
func (v *GenericVar) Read(c *stream.Codec) (err error) {
	if v.Name, err = c.ReadSafeString(); err != nil {
		return err
	}
	t, err := c.ReadByte()
	if err != nil {
		return err
	}
	v.Type = Type(t)

	switch v.Type {
	case TypeInt:
		v.Value, err = c.ReadLEInt32()
	case TypeFloat:
		v.Value, err = c.ReadLEFloat()
	case TypeBool:
		v.Value, err = c.ReadBool()
	case TypeString, TypeAny:
		v.Value, err = c.ReadSafeString()
	case TypeChar:
		v.Value, err = c.ReadByte()
	case TypeUInt:
		v.Value, err = c.ReadLE32()
	case TypeDouble:
		v.Value, err = c.ReadLEDouble()
	case TypeNone:
		v.Value = nil
	default:
		return encio.NewIOError(encio.ErrMalformed, fmt.Sprintf("unknown type %v for variable %q", v.Type, v.Name))
	}
	return err
}
