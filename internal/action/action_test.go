package action

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDispatchNearestRecognizedAncestor(t *testing.T) {
	r := NewRegistry()

	var got string
	r.Register("task.requeue", func(el *Element) error {
		got = el.Attr("task-id")
		return nil
	})

	root := NewElement(nil, nil)
	row := NewElement(root, map[string]string{AttrAction: "task.requeue", "task-id": "task-9"})
	cell := NewElement(row, nil)

	handled, err := r.Dispatch(cell)
	if !handled || err != nil {
		t.Fatalf("expected handled, got handled=%v err=%v", handled, err)
	}
	if got != "task-9" {
		t.Fatalf("handler context: expected task-9, got %q", got)
	}
}

func TestDispatchNoRecognizedAncestorIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Register("task.fail", func(el *Element) error { return nil })

	root := NewElement(nil, nil)
	leaf := NewElement(NewElement(root, nil), nil)

	handled, err := r.Dispatch(leaf)
	if handled || err != nil {
		t.Fatalf("expected no-op, got handled=%v err=%v", handled, err)
	}

	// An action attribute nobody registered is also a no-op.
	stray := NewElement(root, map[string]string{AttrAction: "task.unknown"})
	handled, _ = r.Dispatch(stray)
	if handled {
		t.Fatalf("unregistered action must not be handled")
	}
}

func TestDispatchSkipsUnrecognizedAndKeepsWalking(t *testing.T) {
	r := NewRegistry()
	var got string
	r.Register("queue.archive", func(el *Element) error {
		got = el.Attr("queue-id")
		return nil
	})

	outer := NewElement(nil, map[string]string{AttrAction: "queue.archive", "queue-id": "q-1"})
	inner := NewElement(outer, map[string]string{AttrAction: "not.registered"})

	handled, _ := r.Dispatch(NewElement(inner, nil))
	if !handled {
		t.Fatalf("expected outer recognized ancestor to handle")
	}
	if got != "q-1" {
		t.Fatalf("expected q-1, got %q", got)
	}
}

func TestReRegistrationReplacesDeterministically(t *testing.T) {
	r := NewRegistry()

	var first, second int32
	r.Register("task.claim", func(el *Element) error {
		atomic.AddInt32(&first, 1)
		return nil
	})
	r.Register("task.claim", func(el *Element) error {
		atomic.AddInt32(&second, 1)
		return nil
	})

	el := NewElement(nil, map[string]string{AttrAction: "task.claim"})
	for i := 0; i < 3; i++ {
		if handled, _ := r.Dispatch(el); !handled {
			t.Fatalf("expected handled")
		}
	}

	if atomic.LoadInt32(&first) != 0 {
		t.Fatalf("replaced handler must never fire, fired %d times", first)
	}
	if atomic.LoadInt32(&second) != 3 {
		t.Fatalf("expected last registration to win every dispatch, got %d", second)
	}
}

func TestBusyElementNotReentered(t *testing.T) {
	r := NewRegistry()

	var runs int32
	started := make(chan struct{})
	release := make(chan struct{})
	r.Register("task.fail", func(el *Element) error {
		atomic.AddInt32(&runs, 1)
		close(started)
		<-release
		return nil
	})

	el := NewElement(nil, map[string]string{AttrAction: "task.fail", "task-id": "task-1"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.Dispatch(el)
	}()
	<-started

	if !r.Busy(el) {
		t.Fatalf("element should be busy while handler pending")
	}
	handled, _ := r.Dispatch(el)
	if handled {
		t.Fatalf("busy element must not be re-entered")
	}

	close(release)
	wg.Wait()
	if n := atomic.LoadInt32(&runs); n != 1 {
		t.Fatalf("expected 1 run, got %d", n)
	}

	// After completion the element can fire again.
	release = make(chan struct{})
	close(release)
	started = make(chan struct{}, 1)
	r.Register("task.fail", func(el *Element) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})
	if handled, _ := r.Dispatch(el); !handled {
		t.Fatalf("expected dispatch after completion")
	}
}

func TestDistinctElementsDispatchIndependently(t *testing.T) {
	r := NewRegistry()

	started := make(chan struct{})
	release := make(chan struct{})
	var runs int32
	r.Register("task.rerun", func(el *Element) error {
		if atomic.AddInt32(&runs, 1) == 1 {
			close(started)
			<-release
		}
		return nil
	})

	a := NewElement(nil, map[string]string{AttrAction: "task.rerun", "task-id": "task-a"})
	b := NewElement(nil, map[string]string{AttrAction: "task.rerun", "task-id": "task-b"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.Dispatch(a)
	}()
	<-started

	// A different element's action is not serialized behind a's handler.
	done := make(chan bool, 1)
	go func() {
		handled, _ := r.Dispatch(b)
		done <- handled
	}()
	select {
	case handled := <-done:
		if !handled {
			t.Fatalf("expected independent element to dispatch")
		}
	case <-time.After(time.Second):
		t.Fatalf("independent element blocked behind unrelated handler")
	}

	close(release)
	wg.Wait()
}

func TestHandlerErrorPropagates(t *testing.T) {
	r := NewRegistry()
	fail := errors.New("backend said no")
	r.Register("queue.unarchive", func(el *Element) error { return fail })

	el := NewElement(nil, map[string]string{AttrAction: "queue.unarchive"})
	handled, err := r.Dispatch(el)
	if !handled || !errors.Is(err, fail) {
		t.Fatalf("expected handler error, got handled=%v err=%v", handled, err)
	}
	if r.Busy(el) {
		t.Fatalf("element must be released after handler error")
	}
}

func TestMustAttr(t *testing.T) {
	el := NewElement(nil, map[string]string{"task-id": "task-3"})
	v, err := MustAttr(el, "task-id")
	if err != nil || v != "task-3" {
		t.Fatalf("expected task-3, got %q err=%v", v, err)
	}
	if _, err := MustAttr(el, "queue-id"); err == nil {
		t.Fatalf("expected error for missing attribute")
	}
}

func TestLookupWalksAncestors(t *testing.T) {
	row := NewElement(nil, map[string]string{"task-id": "task-7"})
	btn := NewElement(row, map[string]string{AttrAction: "task.fail"})

	if got := btn.Lookup("task-id"); got != "task-7" {
		t.Fatalf("expected ancestor attribute, got %q", got)
	}
	if got := btn.Lookup("queue-id"); got != "" {
		t.Fatalf("expected empty for absent attribute, got %q", got)
	}

	// The nearest carrier wins.
	inner := NewElement(btn, map[string]string{"task-id": "task-8"})
	if got := inner.Lookup("task-id"); got != "task-8" {
		t.Fatalf("expected nearest carrier, got %q", got)
	}
}
