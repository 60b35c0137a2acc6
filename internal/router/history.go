package router

// History is the fragment stack of the session. Redirects replace the top entry.
type History struct {
	entries []string
}

func (h *History) Push(fragment string) {
	h.entries = append(h.entries, fragment)
}

func (h *History) Replace(fragment string) {
	if len(h.entries) == 0 {
		h.entries = append(h.entries, fragment)
		return
	}
	h.entries[len(h.entries)-1] = fragment
}

func (h *History) Current() string {
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Entries() []string {
	return append([]string{}, h.entries...)
}
