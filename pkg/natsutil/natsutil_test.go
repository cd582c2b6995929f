package natsutil

import (
	"testing"

	"github.com/nats-io/nats.go"
)

func TestHeaderCarrier(t *testing.T) {
	msg := &nats.Msg{Subject: "test"}
	c := (*headerCarrier)(msg)

	if got := c.Get("traceparent"); got != "" {
		t.Fatalf("empty carrier returned %q", got)
	}

	c.Set("traceparent", "00-abc-def-01")
	if got := c.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("Get = %q", got)
	}

	c.Set("baggage", "k=v")
	keys := c.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys = %v", keys)
	}
	if msg.Header.Get("traceparent") != "00-abc-def-01" {
		t.Fatal("carrier should write through to the message header")
	}
}
