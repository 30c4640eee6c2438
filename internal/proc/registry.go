package proc

import (
	"github.com/darkwater/cecctl/log2"
)

// Registry holds children not yet seen exited. Not safe for concurrent use.
type Registry struct {
	Log      *log2.Log
	children []Child
}

func NewRegistry(log *log2.Log) *Registry { return &Registry{Log: log} }

func (self *Registry) Append(c Child) { self.children = append(self.children, c) }

func (self *Registry) Len() int { return len(self.children) }

// Reap drops exited children, exit status is ignored. Children that fail to
// poll stay for the next round. Returns count removed.
func (self *Registry) Reap() int {
	kept := self.children[:0]
	for _, c := range self.children {
		exited, err := c.TryWait()
		if err != nil {
			self.Log.Debugf("child pid=%d poll: %v", c.Pid(), err)
		}
		if !exited || err != nil {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(self.children); i++ {
		self.children[i] = nil
	}
	n := len(self.children) - len(kept)
	self.children = kept
	if n != 0 {
		self.Log.Tracef("reaped %d children, %d left", n, len(kept))
	}
	return n
}
