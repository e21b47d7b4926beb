package config

import "fmt"

// ValidateTarget checks a raw target document against the required schema.
// It accumulates every violation instead of stopping at the first and never
// panics on malformed input; the caller proceeds only when the result is
// empty.
func ValidateTarget(doc map[string]any) []string {
	var errs []string

	for _, key := range []string{"host", "port", "queries"} {
		if _, ok := doc[key]; !ok {
			errs = append(errs, fmt.Sprintf("missing parameter %q", key))
		}
	}

	for _, key := range []string{"host", "alias", "url", "username", "password"} {
		errs = appendStringTypeError(errs, doc, key)
	}

	if v, ok := doc["port"]; ok {
		if _, isInt := v.(int); !isInt {
			errs = append(errs, fmt.Sprintf("port: expected int, got %s", typeName(v)))
		}
	}

	_, hasUser := doc["username"]
	_, hasPass := doc["password"]
	if hasUser != hasPass {
		errs = append(errs, "username and password must be provided together")
	}

	if v, ok := doc["queries"]; ok {
		errs = append(errs, validateQueries(v)...)
	}

	return errs
}

func validateQueries(v any) []string {
	seq, ok := v.([]any)
	if !ok {
		return []string{fmt.Sprintf("queries: expected sequence, got %s", typeName(v))}
	}
	if len(seq) == 0 {
		return []string{"queries must not be empty"}
	}

	var errs []string
	for i, el := range seq {
		q, ok := el.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("queries[%d]: expected mapping, got %s", i, typeName(el)))
			continue
		}
		errs = append(errs, validateQuery(i, q)...)
	}
	return errs
}

func validateQuery(i int, q map[string]any) []string {
	var errs []string

	if _, ok := q["object_name"]; !ok {
		errs = append(errs, fmt.Sprintf("queries[%d]: missing parameter %q", i, "object_name"))
	}

	for _, key := range []string{"object_name", "object_alias"} {
		if v, ok := q[key]; ok {
			if _, isStr := v.(string); !isStr {
				errs = append(errs, fmt.Sprintf("queries[%d].%s: expected string, got %s", i, key, typeName(v)))
			}
		}
	}

	if v, ok := q["attributes"]; ok {
		if _, isSeq := v.([]any); !isSeq {
			errs = append(errs, fmt.Sprintf("queries[%d].attributes: expected sequence, got %s", i, typeName(v)))
		}
	}

	return errs
}

// appendStringTypeError records a bad-type error when key is present in doc
// with a non-string value.
func appendStringTypeError(errs []string, doc map[string]any, key string) []string {
	v, ok := doc[key]
	if !ok {
		return errs
	}
	if _, isStr := v.(string); !isStr {
		errs = append(errs, fmt.Sprintf("%s: expected string, got %s", key, typeName(v)))
	}
	return errs
}

// typeName renders a decoded YAML value's type in configuration terms.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "sequence"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}
