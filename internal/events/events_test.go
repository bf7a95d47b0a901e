package events

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func TestLogPublisherWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	p := LogPublisher{Logger: log.New(&buf, "", 0)}

	if err := p.Publish(context.Background(), "tender.created", map[string]int{"tenderId": 1}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := buf.String(); !strings.Contains(got, `event tender.created {"tenderId":1}`) {
		t.Fatalf("log line = %q", got)
	}
}

func TestLogPublisherRejectsUnmarshalable(t *testing.T) {
	p := LogPublisher{}
	if err := p.Publish(context.Background(), "x", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestRecorderKeepsOrder(t *testing.T) {
	var r Recorder
	ctx := context.Background()
	_ = r.Publish(ctx, "bid.committed", struct{}{})
	_ = r.Publish(ctx, "bid.revealed", struct{ Amount string }{"80"})

	keys := r.Keys()
	if len(keys) != 2 || keys[0] != "bid.committed" || keys[1] != "bid.revealed" {
		t.Fatalf("keys = %v", keys)
	}
	if body := string(r.Events()[1].Body); body != `{"Amount":"80"}` {
		t.Fatalf("body = %s", body)
	}
}
