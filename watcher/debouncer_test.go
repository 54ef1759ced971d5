package watcher

import (
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func receiveBatch(t *testing.T, d *Debouncer, timeout time.Duration) []DebouncedEvent {
	t.Helper()
	select {
	case batch := <-d.Output():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for debouncer batch")
		return nil
	}
}

func Test_Debouncer_SingleEvent(t *testing.T) {
	d := NewDebouncer(testInterval)
	defer d.Stop()

	d.Add("config.yaml", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 1 {
		t.Fatalf("expected 1 event, got %d", len(batch))
	}
	if batch[0].Path != "config.yaml" || batch[0].Op != OpWrite {
		t.Errorf("unexpected event: %+v", batch[0])
	}
}

func Test_Debouncer_EventCollapsing(t *testing.T) {
	d := NewDebouncer(testInterval)
	defer d.Stop()

	// temp-file-and-rename save
	d.Add("config.yaml", OpRemove)
	d.Add("config.yaml", OpCreate)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 1 {
		t.Fatalf("expected 1 collapsed event, got %d", len(batch))
	}
	if batch[0].Op != OpCreate {
		t.Errorf("expected latest op create, got %s", batch[0].Op)
	}
}

func Test_Debouncer_BatchSortedByPath(t *testing.T) {
	d := NewDebouncer(testInterval)
	defer d.Stop()

	d.Add("b.yaml", OpWrite)
	d.Add("c.yaml", OpCreate)
	d.Add("a.yaml", OpRemove)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	want := []string{"a.yaml", "b.yaml", "c.yaml"}
	if len(batch) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(batch))
	}
	for i, path := range want {
		if batch[i].Path != path {
			t.Errorf("event[%d]: expected %s, got %s", i, path, batch[i].Path)
		}
	}
}

func Test_Debouncer_TimerReset(t *testing.T) {
	d := NewDebouncer(testInterval)
	defer d.Stop()

	d.Add("a.yaml", OpWrite)
	time.Sleep(testInterval / 2)
	d.Add("b.yaml", OpWrite)

	batch := receiveBatch(t, d, 500*time.Millisecond)
	if len(batch) != 2 {
		t.Fatalf("expected 2 events in single batch, got %d", len(batch))
	}
}

func Test_Debouncer_StopClosesOutput(t *testing.T) {
	d := NewDebouncer(testInterval)
	d.Add("a.yaml", OpWrite)
	d.Stop()
	d.Stop()
	d.Add("b.yaml", OpWrite)

	select {
	case _, ok := <-d.Output():
		if ok {
			t.Error("expected closed output without pending batch")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("output not closed")
	}
}
