package cascade

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

var (
	_ msgpack.CustomEncoder = Map{}
	_ msgpack.CustomDecoder = (*Map)(nil)
)

// EncodeMsgpack writes m as [form, payload]. A structured payload is a
// list of [key, value] pairs where an unset value is nil, so order and
// explicit unsets survive the round trip.
func (m Map) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(m.form)); err != nil {
		return err
	}
	switch m.form {
	case FormText:
		return enc.EncodeString(m.text)
	case FormStructured:
		if err := enc.EncodeArrayLen(m.decls.Len()); err != nil {
			return err
		}
		for pair := m.decls.Oldest(); pair != nil; pair = pair.Next() {
			if err := enc.EncodeArrayLen(2); err != nil {
				return err
			}
			if err := enc.EncodeString(pair.Key); err != nil {
				return err
			}
			if pair.Value == nil {
				if err := enc.EncodeNil(); err != nil {
					return err
				}
				continue
			}
			if err := enc.EncodeString(*pair.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.EncodeNil()
	}
}

// DecodeMsgpack reads a map written by EncodeMsgpack.
func (m *Map) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("cascade: expected 2 elements, got %d", n)
	}
	form, err := dec.DecodeInt()
	if err != nil {
		return err
	}

	switch Form(form) {
	case FormAbsent:
		*m = Map{}
		return dec.DecodeNil()
	case FormText:
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		*m = Text(s)
		return nil
	case FormStructured:
		count, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		decls := make([]Declaration, 0, max(count, 0))
		for i := 0; i < count; i++ {
			d, err := decodeDeclaration(dec)
			if err != nil {
				return err
			}
			decls = append(decls, d)
		}
		*m = Structured(decls...)
		return nil
	default:
		return fmt.Errorf("cascade: unknown form %d", form)
	}
}

func decodeDeclaration(dec *msgpack.Decoder) (Declaration, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return Declaration{}, err
	}
	if n != 2 {
		return Declaration{}, fmt.Errorf("cascade: expected declaration pair, got %d elements", n)
	}
	key, err := dec.DecodeString()
	if err != nil {
		return Declaration{}, err
	}
	code, err := dec.PeekCode()
	if err != nil {
		return Declaration{}, err
	}
	if code == msgpcode.Nil {
		return Declaration{Key: key}, dec.DecodeNil()
	}
	value, err := dec.DecodeString()
	if err != nil {
		return Declaration{}, err
	}
	return Decl(key, value), nil
}
