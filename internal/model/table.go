package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ColumnDef is a single column of a table definition: a name and the raw
// MySQL type plus constraints, e.g. "INT PRIMARY KEY".
type ColumnDef struct {
	Name string
	Type string
}

// TableSchema is an ordered list of column definitions. It decodes from a
// JSON object, preserving the key order of the document. A plain map would
// lose that order and scramble the generated CREATE TABLE statement.
type TableSchema []ColumnDef

func (s *TableSchema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("table schema must be a JSON object")
	}

	cols := TableSchema{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("table schema key is not a string")
		}

		var typ string
		if err := dec.Decode(&typ); err != nil {
			return fmt.Errorf("column %q: type must be a string", name)
		}
		cols = append(cols, ColumnDef{Name: name, Type: typ})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = cols
	return nil
}
