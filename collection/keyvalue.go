package collection

// SetValueForKey upserts an entry in the flat key/value side-table and
// writes it through to the store, if attached.
func (c *Collection) SetValueForKey(key, value string) {
	c.keyValues[key] = value
	if c.store != nil {
		c.store.UpsertKeyValue(c.name, key, value)
	}
}

// GetValueForKey returns the stored value, or the empty string if key is
// absent. Callers needing to distinguish "absent" from "stored as empty"
// should use GetAllKeys.
func (c *Collection) GetValueForKey(key string) string {
	return c.keyValues[key]
}

// RemoveValueForKey deletes key from the side-table and writes the removal
// through to the store, if attached.
func (c *Collection) RemoveValueForKey(key string) {
	delete(c.keyValues, key)
	if c.store != nil {
		c.store.RemoveKeyValue(c.name, key)
	}
}

// GetAllValues returns every key/value pair whose key matches pattern. An
// absent or invalid pattern means every pair is included.
func (c *Collection) GetAllValues(pattern string) map[string]string {
	result := map[string]string{}

	var re *compiledRegex
	if pattern != "" {
		compiled, err := compileRegex(pattern)
		if err == nil {
			re = compiled
		}
	}

	for key, value := range c.keyValues {
		if re != nil && !re.MatchString(key) {
			continue
		}
		result[key] = value
	}
	return result
}

// GetAllKeys returns every key present in the side-table.
func (c *Collection) GetAllKeys() []string {
	keys := make([]string, 0, len(c.keyValues))
	for key := range c.keyValues {
		keys = append(keys, key)
	}
	return keys
}
