package poller

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// maxAliasPasses bounds substitution so a property value that itself
// contains a placeholder cannot loop forever.
const maxAliasPasses = 16

// resolveAlias substitutes ${key} placeholders in template with property
// values from an object identifier of the form "domain:k1=v1,k2=v2,...".
// One placeholder is replaced per pass, left to right, until none remain,
// so templates like "${type}.${name}" resolve naturally. A key missing from
// the identifier is an error — the caller skips that object's samples.
func resolveAlias(template, identifier string) (string, error) {
	resolved := template
	for pass := 0; pass < maxAliasPasses; pass++ {
		m := placeholderPattern.FindStringSubmatchIndex(resolved)
		if m == nil {
			return resolved, nil
		}
		key := resolved[m[2]:m[3]]
		value, ok := propertyValue(identifier, key)
		if !ok {
			return "", fmt.Errorf("alias: property %q not present in object name %q", key, identifier)
		}
		resolved = resolved[:m[0]] + value + resolved[m[1]:]
	}
	return "", fmt.Errorf("alias: template %q still has placeholders after %d passes", template, maxAliasPasses)
}

// propertyValue looks key up in the identifier's comma-separated property
// list, "domain:key=value,...".
func propertyValue(identifier, key string) (string, bool) {
	_, properties, found := strings.Cut(identifier, ":")
	if !found {
		return "", false
	}
	for _, pair := range strings.Split(properties, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if ok && k == key {
			return v, true
		}
	}
	return "", false
}
