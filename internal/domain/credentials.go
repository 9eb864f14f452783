package domain

// APIKeys maps provider identifiers (e.g. "openai.com") to secrets.
type APIKeys map[string]string

// Set stores value under name. An empty value removes the entry.
func (k APIKeys) Set(name, value string) {
	if value == "" {
		delete(k, name)
		return
	}
	k[name] = value
}

// Get returns the secret for name, "" when absent.
func (k APIKeys) Get(name string) string {
	return k[name]
}
