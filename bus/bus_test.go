package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, sub *Subscription, want string) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != want {
			t.Errorf("expected payload %q, got %v", want, got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Errorf("unexpected message: %v on %v", got.Payload, got.Topic)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("env", "reading"))
	conn.Publish(conn.NewMessage(T("env", "reading"), "hello", false))

	expectPayload(t, sub, "hello")
}

func TestNonMatchingTopic(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("env", "reading"))
	conn.Publish(conn.NewMessage(T("env", "sensor"), "nope", false))

	expectNoMessage(t, sub)
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("env", "sensor"), "persist", true))

	sub := conn.Subscribe(T("env", "sensor"))
	expectPayload(t, sub, "persist")
}

func TestRetainedCleared(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("env", "sensor"), "persist", true))
	conn.Publish(conn.NewMessage(T("env", "sensor"), nil, true))

	sub := conn.Subscribe(T("env", "sensor"))
	expectNoMessage(t, sub)
}

func TestRetainedOverwrite(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("env", "reading"), "old", true))
	conn.Publish(conn.NewMessage(T("env", "reading"), "new", true))

	sub := conn.Subscribe(T("env", "reading"))
	expectPayload(t, sub, "new")
	expectNoMessage(t, sub)
}

func TestWildcardSingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("env", "+"))
	s2 := c.Subscribe(T("env", "reading"))
	sNo := c.Subscribe(T("config", "+"))

	c.Publish(c.NewMessage(T("env", "reading"), "m1", false))

	expectPayload(t, s1, "m1")
	expectPayload(t, s2, "m1")
	expectNoMessage(t, sNo)

	// "+" matches exactly one token.
	c.Publish(c.NewMessage(T("env"), "m2", false))
	expectNoMessage(t, s1)
}

func TestWildcardMultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sEnv := c.Subscribe(T("env", "#"))
	sAll := c.Subscribe(T("#"))
	sExact := c.Subscribe(T("env"))

	c.Publish(c.NewMessage(T("env"), "p1", false))
	expectPayload(t, sEnv, "p1")
	expectPayload(t, sAll, "p1")
	expectPayload(t, sExact, "p1")

	c.Publish(c.NewMessage(T("env", "reading"), "p2", false))
	expectPayload(t, sEnv, "p2")
	expectPayload(t, sAll, "p2")
	expectNoMessage(t, sExact)
}

func TestWildcardRetainedReplay(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(T("env", "sensor"), "r1", true))
	c.Publish(c.NewMessage(T("env", "reading"), "r2", true))

	sub := c.Subscribe(T("env", "#"))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-sub.Channel():
			got[m.Payload.(string)] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for retained replay")
		}
	}
	if !got["r1"] || !got["r2"] {
		t.Errorf("retained replay incomplete: %v", got)
	}
}

func TestDropOldestOnOverflow(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("env", "reading"))
	for _, p := range []string{"a", "b", "c"} {
		c.Publish(c.NewMessage(T("env", "reading"), p, false))
	}

	// "a" was dropped to make room for "c".
	expectPayload(t, sub, "b")
	expectPayload(t, sub, "c")
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("env", "reading"))
	sub.Unsubscribe()

	c.Publish(c.NewMessage(T("env", "reading"), "gone", false))

	if _, ok := <-sub.Channel(); ok {
		t.Error("expected closed channel after unsubscribe")
	}
}
