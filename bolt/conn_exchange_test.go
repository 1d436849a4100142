package bolt

import (
	"testing"

	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// withServer runs serverFn in its own goroutine and returns a function the
// caller blocks on after driving the matching client call, so each test can
// read top-to-bottom as "client does X, server replies Y" despite net.Pipe's
// synchronous rendezvous.
func withServer(serverFn func()) func() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		serverFn()
	}()
	return func() { <-done }
}

func TestConnRunSuccess(t *testing.T) {
	c, fs := dialPipe(t)

	wait := withServer(func() {
		m := fs.recvMessage(t)
		if m.Signature != SigRun {
			t.Errorf("got signature %#x, want SigRun", m.Signature)
		}
		fs.sendSuccess(t)
	})
	reply, err := c.Run("RETURN 1", nil, nil)
	wait()

	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reply.IsSuccess() {
		t.Fatalf("got signature %#x, want SUCCESS", reply.Signature)
	}
	if c.State() != StateStreaming {
		t.Fatalf("got state %s, want Streaming", c.State())
	}
}

func TestConnRunFailureMovesToFailedState(t *testing.T) {
	c, fs := dialPipe(t)

	wait := withServer(func() {
		fs.recvMessage(t)
		fs.sendFailure(t, "Neo.ClientError.Statement.SyntaxError", "bad syntax")
	})
	_, err := c.Run("NOT CYPHER", nil, nil)
	wait()

	if err == nil {
		t.Fatal("expected an error from a FAILURE reply")
	}
	if c.State() != StateFailed {
		t.Fatalf("got state %s, want Failed", c.State())
	}
}

func TestConnExplicitTransactionLifecycle(t *testing.T) {
	c, fs := dialPipe(t)

	wait := withServer(func() {
		fs.recvMessage(t) // BEGIN
		fs.sendSuccess(t)
	})
	if err := c.BeginTx(nil); err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	wait()
	if c.State() != StateTxReady {
		t.Fatalf("got state %s, want TxReady", c.State())
	}

	wait = withServer(func() {
		m := fs.recvMessage(t)
		if m.Signature != SigRun {
			t.Errorf("got signature %#x, want SigRun", m.Signature)
		}
		fs.sendSuccess(t)
	})
	if _, err := c.Run("CREATE (n)", nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	wait()
	if c.State() != StateTxStreaming {
		t.Fatalf("got state %s, want TxStreaming", c.State())
	}

	wait = withServer(func() {
		fs.recvMessage(t) // DISCARD
		fs.sendSuccess(t)
	})
	if err := c.Discard(-1, -1); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	wait()
	if c.State() != StateTxReady {
		t.Fatalf("got state %s, want TxReady", c.State())
	}

	wait = withServer(func() {
		fs.recvMessage(t) // COMMIT
		fs.sendSuccess(t)
	})
	if err := c.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	wait()
	if c.State() != StateReady {
		t.Fatalf("got state %s, want Ready", c.State())
	}
}

func TestConnRollback(t *testing.T) {
	c, fs := dialPipe(t)

	wait := withServer(func() {
		fs.recvMessage(t) // BEGIN
		fs.sendSuccess(t)
	})
	if err := c.BeginTx(nil); err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	wait()

	wait = withServer(func() {
		fs.recvMessage(t) // ROLLBACK
		fs.sendSuccess(t)
	})
	if err := c.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	wait()
	if c.State() != StateReady {
		t.Fatalf("got state %s, want Ready", c.State())
	}
}

func TestConnPullReturnsRecordsAndHasMore(t *testing.T) {
	c, fs := dialPipe(t)

	wait := withServer(func() {
		fs.recvMessage(t) // RUN
		fs.sendSuccess(t)
	})
	if _, err := c.Run("RETURN 1 UNION RETURN 2", nil, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	wait()

	wait = withServer(func() {
		fs.recvMessage(t) // PULL
		fs.sendRecord(t, values.List{values.Integer(1)})
		fs.sendRecord(t, values.List{values.Integer(2)})
		md := values.NewMap()
		md.Set("has_more", values.Boolean(false))
		fs.sendSuccess(t, md)
	})
	records, hasMore, err := c.Pull(-1, -1)
	wait()

	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	if hasMore {
		t.Fatal("got hasMore=true, want false")
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if c.State() != StateReady {
		t.Fatalf("got state %s, want Ready", c.State())
	}
}

func TestConnPipelineAndPollReply(t *testing.T) {
	c, fs := dialPipe(t)

	wait := withServer(func() {
		m := fs.recvMessage(t) // RUN
		if m.Signature != SigRun {
			t.Errorf("got signature %#x, want SigRun", m.Signature)
		}
		fs.recvMessage(t) // PULL
		fs.sendSuccess(t)
		md := values.NewMap()
		md.Set("has_more", values.Boolean(false))
		fs.sendSuccess(t, md)
	})

	if err := c.Pipeline(NewRunMessage("RETURN 1", nil, nil), reqRunAuto); err != nil {
		t.Fatalf("Pipeline RUN: %v", err)
	}
	if err := c.Pipeline(NewPullMessage(-1, -1), reqPullLast); err != nil {
		t.Fatalf("Pipeline PULL: %v", err)
	}

	runReply, err := c.PollReply()
	if err != nil {
		t.Fatalf("PollReply RUN: %v", err)
	}
	if !runReply.IsSuccess() {
		t.Fatalf("got signature %#x for RUN reply, want SUCCESS", runReply.Signature)
	}
	if c.State() != StateStreaming {
		t.Fatalf("got state %s after RUN reply, want Streaming", c.State())
	}

	pullReply, err := c.PollReply()
	wait()
	if err != nil {
		t.Fatalf("PollReply PULL: %v", err)
	}
	if !pullReply.IsSuccess() {
		t.Fatalf("got signature %#x for PULL reply, want SUCCESS", pullReply.Signature)
	}
	if c.State() != StateReady {
		t.Fatalf("got state %s after PULL reply, want Ready", c.State())
	}
}

func TestConnCloseSendsGoodbye(t *testing.T) {
	c, fs := dialPipe(t)

	wait := withServer(func() {
		m := fs.recvMessage(t)
		if m.Signature != SigGoodbye {
			t.Errorf("got signature %#x, want SigGoodbye", m.Signature)
		}
	})
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	wait()
}
