// Package binds holds the read-only table from canonical key name to shell command.
package binds

type Table struct {
	m map[string]string
}

// New copies m, later changes to m are not visible.
func New(m map[string]string) *Table {
	t := &Table{m: make(map[string]string, len(m))}
	for k, v := range m {
		t.m[k] = v
	}
	return t
}

// Lookup is case sensitive.
func (self *Table) Lookup(name string) (string, bool) {
	if self == nil {
		return "", false
	}
	cmd, ok := self.m[name]
	return cmd, ok
}

func (self *Table) Len() int {
	if self == nil {
		return 0
	}
	return len(self.m)
}
