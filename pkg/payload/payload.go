package payload

// optStr maps the zero string to an absent value so tree.Prune drops the key.
func optStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
