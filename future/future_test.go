package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestFuture_Get(t *testing.T) {
	t.Run("successful result", func(t *testing.T) {
		f := New[string]()

		go func() {
			time.Sleep(50 * time.Millisecond)
			if err := f.Complete("success"); err != nil {
				t.Errorf("Complete failed: %v", err)
			}
		}()

		value, err := f.Get()
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if value != "success" {
			t.Errorf("expected value 'success', got %v", value)
		}
	})

	t.Run("failed result", func(t *testing.T) {
		f := New[string]()
		expectedErr := errors.New("task failed")

		go func() {
			_ = f.Fail(expectedErr)
		}()

		value, err := f.Get()
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if value != "" {
			t.Errorf("expected empty value, got %v", value)
		}
	})

	t.Run("multiple Get calls return same result", func(t *testing.T) {
		f := New[int]()

		go func() {
			_ = f.Complete(123)
		}()

		value1, err1 := f.Get()
		value2, err2 := f.Get()

		if value1 != value2 || err1 != err2 {
			t.Error("Get calls returned different results")
		}
		if value1 != 123 {
			t.Errorf("expected 123, got %v", value1)
		}
	})

	t.Run("concurrent readers all observe the same outcome", func(t *testing.T) {
		f := New[int]()
		const readers = 20

		var wg sync.WaitGroup
		values := make([]int, readers)
		for i := range readers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := f.Get()
				if err != nil {
					t.Errorf("reader got error: %v", err)
				}
				values[i] = v
			}()
		}

		time.Sleep(20 * time.Millisecond)
		if err := f.Complete(7); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		wg.Wait()

		for i, v := range values {
			if v != 7 {
				t.Errorf("reader %d saw %d, want 7", i, v)
			}
		}
	})
}

func TestFuture_SingleAssignment(t *testing.T) {
	t.Run("second Complete is rejected", func(t *testing.T) {
		f := New[int]()

		if err := f.Complete(1); err != nil {
			t.Fatalf("first Complete failed: %v", err)
		}
		if err := f.Complete(2); !errors.Is(err, ErrAlreadyResolved) {
			t.Errorf("expected ErrAlreadyResolved, got %v", err)
		}

		v, err := f.Get()
		if err != nil || v != 1 {
			t.Errorf("stored outcome changed: got (%v, %v), want (1, nil)", v, err)
		}
	})

	t.Run("Fail after Complete is rejected", func(t *testing.T) {
		f := New[int]()

		if err := f.Complete(1); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if err := f.Fail(errors.New("late failure")); !errors.Is(err, ErrAlreadyResolved) {
			t.Errorf("expected ErrAlreadyResolved, got %v", err)
		}

		if v, err := f.Get(); err != nil || v != 1 {
			t.Errorf("stored outcome changed: got (%v, %v), want (1, nil)", v, err)
		}
	})

	t.Run("Complete after Fail is rejected", func(t *testing.T) {
		f := New[int]()
		failure := errors.New("boom")

		if err := f.Fail(failure); err != nil {
			t.Fatalf("Fail failed: %v", err)
		}
		if err := f.Complete(9); !errors.Is(err, ErrAlreadyResolved) {
			t.Errorf("expected ErrAlreadyResolved, got %v", err)
		}

		if _, err := f.Get(); !errors.Is(err, failure) {
			t.Errorf("stored failure changed: got %v", err)
		}
	})

	t.Run("exactly one concurrent writer wins", func(t *testing.T) {
		f := New[int]()
		const writers = 10

		var wg sync.WaitGroup
		var accepted, rejected int64
		var mu sync.Mutex

		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := f.Complete(i)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					accepted++
				} else if errors.Is(err, ErrAlreadyResolved) {
					rejected++
				}
			}()
		}
		wg.Wait()

		if accepted != 1 {
			t.Errorf("expected exactly 1 accepted write, got %d", accepted)
		}
		if rejected != writers-1 {
			t.Errorf("expected %d rejected writes, got %d", writers-1, rejected)
		}
	})
}

func TestFuture_Poll(t *testing.T) {
	t.Run("TryGet before resolution", func(t *testing.T) {
		f := New[int]()

		if _, _, ok := f.TryGet(); ok {
			t.Error("TryGet reported ready on a pending future")
		}
		if s := f.State(); s != Pending {
			t.Errorf("expected Pending, got %v", s)
		}
	})

	t.Run("TryGet after resolution", func(t *testing.T) {
		f := New[int]()
		_ = f.Complete(42)

		v, err, ok := f.TryGet()
		if !ok {
			t.Fatal("TryGet reported pending on a resolved future")
		}
		if v != 42 || err != nil {
			t.Errorf("got (%v, %v), want (42, nil)", v, err)
		}
		if s := f.State(); s != Completed {
			t.Errorf("expected Completed, got %v", s)
		}
	})

	t.Run("failed future reports Failed state", func(t *testing.T) {
		f := New[int]()
		_ = f.Fail(errors.New("nope"))

		if s := f.State(); s != Failed {
			t.Errorf("expected Failed, got %v", s)
		}
	})
}

func TestFuture_GetWithContext(t *testing.T) {
	t.Run("cancelled context returns early", func(t *testing.T) {
		f := New[int]()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := f.GetWithContext(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}

		// The future is untouched; a later resolve still delivers.
		_ = f.Complete(5)
		if v, err := f.Get(); err != nil || v != 5 {
			t.Errorf("got (%v, %v), want (5, nil)", v, err)
		}
	})

	t.Run("zero timeout waits for the result", func(t *testing.T) {
		f := New[int]()
		go func() {
			time.Sleep(30 * time.Millisecond)
			_ = f.Complete(8)
		}()

		v, err := f.GetWithTimeout(0)
		if err != nil || v != 8 {
			t.Errorf("got (%v, %v), want (8, nil)", v, err)
		}
	})

	t.Run("timeout expires before resolution", func(t *testing.T) {
		f := New[int]()

		_, err := f.GetWithTimeout(30 * time.Millisecond)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected DeadlineExceeded, got %v", err)
		}
	})
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		Pending:   "pending",
		Completed: "completed",
		Failed:    "failed",
		State(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
