package xlog

import "testing"

func TestNoopDoesNotPanic(t *testing.T) {
	var l Logger = Noop{}
	l.Trace("t", F("a", 1))
	l.Debug("d")
	l.Info("i", F("b", "x"))
	l.Warn("w", F("c", 1.5))
	l.Error("e", F("err", nil))
}
