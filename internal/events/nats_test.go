package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"church-admin-go/internal/domain/assignment"
	"church-admin-go/pkg/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func startNATS(t *testing.T) *nats.Conn {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:  "127.0.0.1",
		Port:  -1,
		NoLog: true,
	})
	if err != nil {
		t.Fatalf("create nats server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		ns.Shutdown()
		t.Fatalf("nats server not ready")
	}

	nc, err := nats.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		t.Fatalf("connect nats: %v", err)
	}
	t.Cleanup(func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return nc
}

func TestPublishEncodesPayload(t *testing.T) {
	nc := startNATS(t)
	publisher := NewPublisher(nc, "churches.", logger.Discard())

	sub, err := nc.SubscribeSync("churches.assignment.created")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	event := assignment.Event{AssignmentID: "a-1", ChurchID: "c-1", PastorName: "John Doe", Status: assignment.StatusPending}
	if err := publisher.Publish(context.Background(), assignment.EventCreated, event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("expected message, got %v", err)
	}

	var got assignment.Event
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.AssignmentID != "a-1" || got.PastorName != "John Doe" {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestPublishHonorsCancelledContext(t *testing.T) {
	nc := startNATS(t)
	publisher := NewPublisher(nc, "", logger.Discard())
	if publisher.Subject("pastor.unassigned") != DefaultSubjectPrefix+".pastor.unassigned" {
		t.Fatalf("unexpected subject %s", publisher.Subject("pastor.unassigned"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := publisher.Publish(ctx, "pastor.unassigned", map[string]string{}); err == nil {
		t.Fatalf("expected cancelled context to fail")
	}
}
