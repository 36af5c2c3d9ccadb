package siminput

import (
	"context"
	"sync"
	"testing"

	"github.com/kazanefu/phybkc/internal/dsl"
)

type event struct {
	code uint16
	down bool
}

type fakeEmitter struct {
	mu       sync.Mutex
	keys     []event
	unicodes []rune
}

func (f *fakeEmitter) emitKey(scanCode uint16, down bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, event{scanCode, down})
	return nil
}

func (f *fakeEmitter) emitUnicode(r rune) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unicodes = append(f.unicodes, r)
	return nil
}

func key(name string) dsl.SendExpression {
	return dsl.SendExpression{Kind: dsl.SendKey, Key: dsl.TriggerKey{Kind: dsl.Virtual, Name: name}}
}

func TestSendKeyEmitsDownThenUp(t *testing.T) {
	fe := &fakeEmitter{}
	sim := newWithEmitter(fe)
	if err := sim.SendKeys(context.Background(), []dsl.SendExpression{key("A")}); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	if len(fe.keys) != 2 || !fe.keys[0].down || fe.keys[1].down {
		t.Fatalf("expected down then up, got %+v", fe.keys)
	}
}

func TestSendHoldWithoutReleaseAutoReleasesAtEnd(t *testing.T) {
	fe := &fakeEmitter{}
	sim := newWithEmitter(fe)
	exprs := []dsl.SendExpression{
		{Kind: dsl.SendHold, Key: dsl.TriggerKey{Kind: dsl.Virtual, Name: "LeftShift"}},
		{Kind: dsl.SendKey, Key: dsl.TriggerKey{Kind: dsl.Virtual, Name: "A"}},
	}
	if err := sim.SendKeys(context.Background(), exprs); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	last := fe.keys[len(fe.keys)-1]
	if last.down {
		t.Fatalf("expected the held key to be auto-released last, got %+v", fe.keys)
	}
}

func TestSendHoldThenExplicitReleaseSkipsAutoRelease(t *testing.T) {
	fe := &fakeEmitter{}
	sim := newWithEmitter(fe)
	k := dsl.TriggerKey{Kind: dsl.Virtual, Name: "LeftShift"}
	exprs := []dsl.SendExpression{
		{Kind: dsl.SendHold, Key: k},
		{Kind: dsl.SendRelease, Key: k},
	}
	if err := sim.SendKeys(context.Background(), exprs); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	downs, ups := 0, 0
	for _, e := range fe.keys {
		if e.down {
			downs++
		} else {
			ups++
		}
	}
	if downs != 1 || ups != 1 {
		t.Fatalf("expected exactly one down and one up, got %+v", fe.keys)
	}
}

func TestSendStringEmitsPairPerCodePoint(t *testing.T) {
	fe := &fakeEmitter{}
	sim := newWithEmitter(fe)
	if err := sim.SendKeys(context.Background(), []dsl.SendExpression{{Kind: dsl.SendString, Text: "hi"}}); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	if len(fe.unicodes) != 2 || fe.unicodes[0] != 'h' || fe.unicodes[1] != 'i' {
		t.Fatalf("unexpected unicode emissions: %v", fe.unicodes)
	}
}

func TestSendComboPressesInOrderThenReleasesInReverse(t *testing.T) {
	fe := &fakeEmitter{}
	sim := newWithEmitter(fe)
	combo := []dsl.TriggerKey{
		{Kind: dsl.Virtual, Name: "LeftCtrl"},
		{Kind: dsl.Virtual, Name: "LeftShift"},
		{Kind: dsl.Virtual, Name: "A"},
	}
	err := sim.SendKeys(context.Background(), []dsl.SendExpression{{Kind: dsl.SendCombo, Combo: combo}})
	if err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	if len(fe.keys) != 6 {
		t.Fatalf("expected 6 events, got %d: %+v", len(fe.keys), fe.keys)
	}
	for i := 0; i < 3; i++ {
		if !fe.keys[i].down {
			t.Fatalf("expected first 3 events to be key-downs, got %+v", fe.keys)
		}
	}
	if fe.keys[3].code != fe.keys[2].code || fe.keys[4].code != fe.keys[1].code || fe.keys[5].code != fe.keys[0].code {
		t.Fatalf("expected releases in reverse press order, got %+v", fe.keys)
	}
	for i := 3; i < 6; i++ {
		if fe.keys[i].down {
			t.Fatalf("expected last 3 events to be key-ups, got %+v", fe.keys)
		}
	}
}
