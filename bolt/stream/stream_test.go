package stream

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/neo4j-contrib/bolt-cypher-driver/bolt"
	"github.com/neo4j-contrib/bolt-cypher-driver/packstream"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// fakeBoltServer answers the wire-level Bolt exchange a Stream drives,
// running over a real loopback TCP connection since bolt.Conn's fields are
// unexported and this package only sees bolt's public Dial/Run/Pull API.
type fakeBoltServer struct {
	t    *testing.T
	conn net.Conn
}

// newFakeBoltServer dials a *bolt.Conn against an in-process listener,
// answering the handshake and HELLO synchronously, then hands control to
// script to answer whatever RUN/PULL/DISCARD sequence the test drives.
func newFakeBoltServer(t *testing.T, script func(*fakeBoltServer)) *bolt.Conn {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	srv := &fakeBoltServer{t: t}
	ready := make(chan struct{})
	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		srv.conn = c
		srv.answerHandshake()
		srv.answerHello()
		close(ready)
		if script != nil {
			script(srv)
		}
	}()

	conn, err := bolt.Dial(bolt.Config{Address: ln.Addr().String(), Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	<-ready
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (s *fakeBoltServer) answerHandshake() {
	var preamble [4]byte
	if _, err := io.ReadFull(s.conn, preamble[:]); err != nil {
		s.t.Fatalf("read preamble: %v", err)
	}
	var proposals [16]byte
	if _, err := io.ReadFull(s.conn, proposals[:]); err != nil {
		s.t.Fatalf("read proposals: %v", err)
	}
	resp := [4]byte{0, 0, 4, 5} // choose 5.4
	if _, err := s.conn.Write(resp[:]); err != nil {
		s.t.Fatalf("write chosen version: %v", err)
	}
}

func (s *fakeBoltServer) answerHello() {
	if sig := s.recvSignature(); sig != bolt.SigHello {
		s.t.Fatalf("expected HELLO, got %#x", sig)
	}
	s.sendSuccess(func(w *packstream.Writer) {
		if err := w.WriteMapHeader(0); err != nil {
			s.t.Fatalf("write hello metadata: %v", err)
		}
	})
}

func (s *fakeBoltServer) readFrame() []byte {
	var out []byte
	for {
		var header [2]byte
		if _, err := io.ReadFull(s.conn, header[:]); err != nil {
			s.t.Fatalf("read chunk header: %v", err)
		}
		n := binary.BigEndian.Uint16(header[:])
		if n == 0 {
			return out
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(s.conn, chunk); err != nil {
			s.t.Fatalf("read chunk: %v", err)
		}
		out = append(out, chunk...)
	}
}

func (s *fakeBoltServer) writeFrame(payload []byte) {
	var header [2]byte
	binary.BigEndian.PutUint16(header[:], uint16(len(payload)))
	if _, err := s.conn.Write(header[:]); err != nil {
		s.t.Fatalf("write chunk header: %v", err)
	}
	if _, err := s.conn.Write(payload); err != nil {
		s.t.Fatalf("write chunk: %v", err)
	}
	var end [2]byte
	if _, err := s.conn.Write(end[:]); err != nil {
		s.t.Fatalf("write terminator: %v", err)
	}
}

// recvSignature reads one full frame and returns its structure signature,
// discarding the fields: the fake server scripts a fixed exchange, so it
// only needs to confirm which message arrived.
func (s *fakeBoltServer) recvSignature() byte {
	payload := s.readFrame()
	pr := packstream.NewReader(payload)
	_, sig, err := pr.ReadStructHeader()
	if err != nil {
		s.t.Fatalf("read struct header: %v", err)
	}
	return sig
}

func (s *fakeBoltServer) sendSuccess(build func(w *packstream.Writer)) {
	w := packstream.NewWriter()
	if err := w.WriteStructHeader(1, bolt.SigSuccess); err != nil {
		s.t.Fatalf("write success header: %v", err)
	}
	build(w)
	s.writeFrame(w.Bytes())
}

// sendRunSuccess answers a RUN with the field names and query id a Stream
// needs to bind its column index and drive subsequent PULLs.
func (s *fakeBoltServer) sendRunSuccess(fields []string, qid int64) {
	s.sendSuccess(func(w *packstream.Writer) {
		if err := w.WriteMapHeader(2); err != nil {
			s.t.Fatalf("write run metadata header: %v", err)
		}
		if err := w.WriteString("fields"); err != nil {
			s.t.Fatalf("write fields key: %v", err)
		}
		if err := w.WriteListHeader(len(fields)); err != nil {
			s.t.Fatalf("write fields header: %v", err)
		}
		for _, f := range fields {
			if err := w.WriteString(f); err != nil {
				s.t.Fatalf("write field name: %v", err)
			}
		}
		if err := w.WriteString("qid"); err != nil {
			s.t.Fatalf("write qid key: %v", err)
		}
		w.WriteInt(qid)
	})
}

func (s *fakeBoltServer) sendRecord(vals ...int64) {
	w := packstream.NewWriter()
	if err := w.WriteStructHeader(1, bolt.SigRecord); err != nil {
		s.t.Fatalf("write record header: %v", err)
	}
	if err := w.WriteListHeader(len(vals)); err != nil {
		s.t.Fatalf("write record list header: %v", err)
	}
	for _, v := range vals {
		w.WriteInt(v)
	}
	s.writeFrame(w.Bytes())
}

func (s *fakeBoltServer) sendPullSuccess(hasMore bool) {
	s.sendSuccess(func(w *packstream.Writer) {
		if err := w.WriteMapHeader(1); err != nil {
			s.t.Fatalf("write pull metadata header: %v", err)
		}
		if err := w.WriteString("has_more"); err != nil {
			s.t.Fatalf("write has_more key: %v", err)
		}
		w.WriteBool(hasMore)
	})
}

func (s *fakeBoltServer) sendDiscardSuccess() {
	s.sendSuccess(func(w *packstream.Writer) {
		if err := w.WriteMapHeader(0); err != nil {
			s.t.Fatalf("write discard metadata: %v", err)
		}
	})
}

func recordInt(t *testing.T, rec *Record, i int) int64 {
	t.Helper()
	v, err := rec.At(i)
	if err != nil {
		t.Fatalf("At(%d): %v", i, err)
	}
	n, ok := v.(values.Integer)
	if !ok {
		t.Fatalf("field %d: got %T, want values.Integer", i, v)
	}
	return int64(n)
}

// TestStreamBoundedFetchExhaustsInOnePull covers the case that surfaced the
// Conn.Pull state-transition bug: a bounded FetchSize whose result happens
// to finish in a single PULL must still leave the connection in
// StateReady, not StateStreaming.
func TestStreamBoundedFetchExhaustsInOnePull(t *testing.T) {
	conn := newFakeBoltServer(t, func(s *fakeBoltServer) {
		if sig := s.recvSignature(); sig != bolt.SigRun {
			t.Fatalf("expected RUN, got %#x", sig)
		}
		s.sendRunSuccess([]string{"n"}, 0)

		if sig := s.recvSignature(); sig != bolt.SigPull {
			t.Fatalf("expected PULL, got %#x", sig)
		}
		s.sendRecord(1)
		s.sendRecord(2)
		s.sendPullSuccess(false)
	})

	st, err := Open(conn, "MATCH (n) RETURN n", nil, nil, Options{FetchSize: 10})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var got []int64
	for {
		rec, err := st.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
		got = append(got, recordInt(t, rec, 0))
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got rows %v, want [1 2]", got)
	}
	if conn.State() != bolt.StateReady {
		t.Fatalf("connection state = %s, want Ready", conn.State())
	}
	if !st.consumed {
		t.Fatal("expected stream to be marked consumed after has_more=false")
	}
}

// TestStreamMultiPullFetchesUntilExhausted covers a FetchSize small enough
// that the server reports has_more=true and the Stream must issue a second
// PULL to keep draining.
func TestStreamMultiPullFetchesUntilExhausted(t *testing.T) {
	conn := newFakeBoltServer(t, func(s *fakeBoltServer) {
		if sig := s.recvSignature(); sig != bolt.SigRun {
			t.Fatalf("expected RUN, got %#x", sig)
		}
		s.sendRunSuccess([]string{"n"}, 0)

		if sig := s.recvSignature(); sig != bolt.SigPull {
			t.Fatalf("expected first PULL, got %#x", sig)
		}
		s.sendRecord(1)
		s.sendRecord(2)
		s.sendPullSuccess(true)

		if sig := s.recvSignature(); sig != bolt.SigPull {
			t.Fatalf("expected second PULL, got %#x", sig)
		}
		s.sendRecord(3)
		s.sendPullSuccess(false)
	})

	st, err := Open(conn, "MATCH (n) RETURN n", nil, nil, Options{FetchSize: 2})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var got []int64
	for {
		rec, err := st.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
		got = append(got, recordInt(t, rec, 0))
	}

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got rows %v, want [1 2 3]", got)
	}
	if conn.State() != bolt.StateReady {
		t.Fatalf("connection state = %s, want Ready", conn.State())
	}
}

// TestStreamMaxRowsTruncatesWithoutOverFetching covers MaxRows: once the
// cap is reached Next must stop yielding records without issuing another
// PULL for rows it will never return, even though the server reports more
// are available. Close must then discard the rest.
func TestStreamMaxRowsTruncatesWithoutOverFetching(t *testing.T) {
	conn := newFakeBoltServer(t, func(s *fakeBoltServer) {
		if sig := s.recvSignature(); sig != bolt.SigRun {
			t.Fatalf("expected RUN, got %#x", sig)
		}
		s.sendRunSuccess([]string{"n"}, 0)

		if sig := s.recvSignature(); sig != bolt.SigPull {
			t.Fatalf("expected first PULL, got %#x", sig)
		}
		s.sendRecord(1)
		s.sendPullSuccess(true)

		if sig := s.recvSignature(); sig != bolt.SigPull {
			t.Fatalf("expected second PULL, got %#x", sig)
		}
		s.sendRecord(2)
		s.sendPullSuccess(true)

		// A third PULL must never arrive: MaxRows is reached after the
		// second record, so Next must stop before fetching more.
		if sig := s.recvSignature(); sig != bolt.SigDiscard {
			t.Fatalf("expected DISCARD on Close, got %#x", sig)
		}
		s.sendDiscardSuccess()
	})

	st, err := Open(conn, "MATCH (n) RETURN n", nil, nil, Options{FetchSize: 1, MaxRows: 2})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var got []int64
	for {
		rec, err := st.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if rec == nil {
			break
		}
		got = append(got, recordInt(t, rec, 0))
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got rows %v, want [1 2] (MaxRows should stop before the 3rd buffered row)", got)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
