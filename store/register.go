// File: lixenwraith/setting/store/register.go
package store

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

var urlType = reflect.TypeOf(url.URL{})

// RegisterStruct registers default values derived from a struct.
// It uses `toml:"..."` struct tags to determine the paths, recursing into nested
// structs. The prefix is prepended to all paths (e.g., "Db."). An empty prefix is allowed.
func (s *Store) RegisterStruct(prefix string, structWithDefaults any) error {
	v := reflect.ValueOf(structWithDefaults)

	// Handle pointer or direct struct value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return fmt.Errorf("RegisterStruct requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("RegisterStruct requires a struct or struct pointer, got %T", structWithDefaults)
	}

	var errors []string
	s.registerFields(v, prefix, "", &errors)

	if len(errors) > 0 {
		return fmt.Errorf("failed to register %d field(s): %s", len(errors), strings.Join(errors, "; "))
	}

	return nil
}

// registerFields handles the recursive field registration.
func (s *Store) registerFields(v reflect.Value, pathPrefix, fieldPath string, errors *[]string) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("toml")
		if tag == "-" {
			continue
		}

		key := field.Name
		if tag != "" {
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				key = name
			}
		}

		currentPath := key
		if pathPrefix != "" {
			if !strings.HasSuffix(pathPrefix, ".") {
				pathPrefix += "."
			}
			currentPath = pathPrefix + key
		}

		// Nested structs become path prefixes; durations, URLs and other leaf
		// structs with no exported fields are registered as values.
		isStruct := fieldValue.Kind() == reflect.Struct && isTable(fieldValue.Type())
		isPtrToStruct := fieldValue.Kind() == reflect.Ptr && isTable(fieldValue.Type().Elem())

		if isStruct || isPtrToStruct {
			nestedValue := fieldValue
			if isPtrToStruct {
				if fieldValue.IsNil() {
					continue
				}
				nestedValue = fieldValue.Elem()
			}
			s.registerFields(nestedValue, currentPath+".", fieldPath+field.Name+".", errors)
			continue
		}

		if err := s.Register(currentPath, fieldValue.Interface()); err != nil {
			*errors = append(*errors, fmt.Sprintf("field %s%s (path %s): %v", fieldPath, field.Name, currentPath, err))
		}
	}
}

// isTable reports whether t is a struct whose fields become nested paths.
func isTable(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == urlType {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}
