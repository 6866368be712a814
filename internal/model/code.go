package model

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Business code prefixes.
const (
	StudentCodePrefix = "STD"
	TeacherCodePrefix = "TCH"
	ClassCodePrefix   = "CLS"
)

// CodeGenerator issues business codes of the form prefix + unix millis.
// Within one process the numeric part is strictly increasing: when the clock
// yields a millisecond that was already issued the next free one is used.
type CodeGenerator struct {
	now  func() time.Time
	last atomic.Int64
}

// NewCodeGenerator creates a generator reading time from now.
func NewCodeGenerator(now func() time.Time) *CodeGenerator {
	return &CodeGenerator{now: now}
}

// Next returns a fresh code for prefix.
func (g *CodeGenerator) Next(prefix string) string {
	for {
		prev := g.last.Load()
		ms := g.now().UnixMilli()
		if ms <= prev {
			ms = prev + 1
		}
		if g.last.CompareAndSwap(prev, ms) {
			return prefix + strconv.FormatInt(ms, 10)
		}
	}
}

// Codes is the process-wide generator used by the entity hooks.
var Codes = NewCodeGenerator(time.Now)
