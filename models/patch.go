package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
)

// Patch is the raw `updates` object of a PUT request.
type Patch map[string]json.RawMessage

// Decode copies the patch into dst, a pointer to a struct of pointer fields.
// Keys that do not name a json field of dst are rejected.
func (p Patch) Decode(dst interface{}) error {
	if len(p) == 0 {
		return fmt.Errorf("updates must not be empty")
	}

	allowed := jsonFieldNames(reflect.TypeOf(dst))
	var unknown []string
	for key := range p {
		if !allowed[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown fields: %s", strings.Join(unknown, ", "))
	}

	raw, err := gojson.Marshal(p)
	if err != nil {
		return err
	}
	if err := gojson.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid updates: %w", err)
	}
	return nil
}

func jsonFieldNames(t reflect.Type) map[string]bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	names := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name := strings.Split(tag, ",")[0]
		if name != "" && name != "-" {
			names[name] = true
		}
	}
	return names
}
