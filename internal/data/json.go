package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ReadJSON loads an array of flat objects, e.g. an API dump of the same
// columns as the CSV export:
//
//	[{"unix_seconds": 1456841700, "Solar": 1156.25, ...}, ...]
//
// The header is the sorted union of all keys. Numbers keep their literal text.
func ReadJSON(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := DecodeJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func DecodeJSON(raw []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var objs []map[string]any
	if err := dec.Decode(&objs); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var header []string
	for _, o := range objs {
		for k := range o {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	sort.Strings(header)

	records := make([][]string, len(objs))
	for i, o := range objs {
		rec := make([]string, len(header))
		for c, k := range header {
			switch v := o[k].(type) {
			case nil:
			case string:
				rec[c] = v
			case json.Number:
				rec[c] = v.String()
			default:
				rec[c] = fmt.Sprint(v)
			}
		}
		records[i] = rec
	}
	return &Table{Header: header, Records: records}, nil
}
