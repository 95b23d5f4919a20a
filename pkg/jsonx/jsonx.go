// Package jsonx tipos JSON tolerantes para payloads del backend, que envía ids y
// cantidades a veces como número y a veces como string (columnas NUMERIC serializadas).
package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID acepta "12", 12 o null (queda vacío).
type ID string

// UnmarshalJSON implementa json.Unmarshaler.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("jsonx: id inválido %s", string(b))
	}
	*id = ID(n.String())
	return nil
}

// String devuelve el id como string.
func (id ID) String() string { return string(id) }

// Int acepta 5, "5", 5.0 o null (queda en 0).
type Int int

// UnmarshalJSON implementa json.Unmarshaler.
func (i *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*i = 0
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*i = 0
			return nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		*i = Int(n)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("jsonx: entero inválido %q", s)
	}
	*i = Int(int(f))
	return nil
}
