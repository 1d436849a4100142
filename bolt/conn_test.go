package bolt

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltlog"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// fakeServer drives the server side of a net.Pipe() connection: it answers
// the handshake with a fixed version, then runs handler against the
// negotiated message stream.
type fakeServer struct {
	conn    net.Conn
	version ProtocolVersion
}

func newFakeServer(t *testing.T, conn net.Conn, version ProtocolVersion) *fakeServer {
	t.Helper()
	return &fakeServer{conn: conn, version: version}
}

func (s *fakeServer) answerHandshake(t *testing.T) {
	t.Helper()
	var preamble [4]byte
	if _, err := io.ReadFull(s.conn, preamble[:]); err != nil {
		t.Fatalf("read handshake preamble: %v", err)
	}
	var proposal [16]byte
	if _, err := io.ReadFull(s.conn, proposal[:]); err != nil {
		t.Fatalf("read handshake proposal: %v", err)
	}
	var resp [4]byte
	resp[3] = s.version.Major
	resp[2] = s.version.Minor
	if _, err := s.conn.Write(resp[:]); err != nil {
		t.Fatalf("write handshake response: %v", err)
	}
}

func (s *fakeServer) recvMessage(t *testing.T) Message {
	t.Helper()
	m, err := decodeMessage(s.conn, newUnpacker(usesUTCDateTime(s.version)))
	if err != nil {
		t.Fatalf("server decodeMessage: %v", err)
	}
	return m
}

func (s *fakeServer) sendSuccess(t *testing.T, fields ...values.Value) {
	t.Helper()
	md := values.NewMap()
	if len(fields) == 1 {
		if m, ok := fields[0].(*values.Map); ok {
			md = m
		}
	}
	if err := encodeMessage(s.conn, Message{Signature: SigSuccess, Fields: []values.Value{md}}, usesUTCDateTime(s.version)); err != nil {
		t.Fatalf("server sendSuccess: %v", err)
	}
}

func (s *fakeServer) sendFailure(t *testing.T, code, msg string) {
	t.Helper()
	md := values.NewMap()
	md.Set("code", values.String(code))
	md.Set("message", values.String(msg))
	if err := encodeMessage(s.conn, Message{Signature: SigFailure, Fields: []values.Value{md}}, usesUTCDateTime(s.version)); err != nil {
		t.Fatalf("server sendFailure: %v", err)
	}
}

func (s *fakeServer) sendRecord(t *testing.T, row values.List) {
	t.Helper()
	if err := encodeMessage(s.conn, Message{Signature: SigRecord, Fields: []values.Value{row}}, usesUTCDateTime(s.version)); err != nil {
		t.Fatalf("server sendRecord: %v", err)
	}
}

// dialPipe wires a Conn to the client half of a net.Pipe(), performing the
// handshake and HELLO against a fakeServer on the server half, and returns
// both ends ready for the test body to drive further exchanges.
func dialPipe(t *testing.T) (*Conn, *fakeServer) {
	t.Helper()
	client, server := net.Pipe()
	fs := newFakeServer(t, server, ProtocolVersion{Major: 5, Minor: 4})

	done := make(chan struct{})
	go func() {
		defer close(done)
		fs.answerHandshake(t)
		fs.recvMessage(t) // HELLO
		fs.sendSuccess(t)
	}()

	c := &Conn{connID: "test", netConn: client, log: boltlog.For("test"), timeout: 5 * time.Second, state: StateDisconnected}
	if err := c.handshake(); err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if err := c.hello(Config{}); err != nil {
		t.Fatalf("hello: %v", err)
	}
	<-done
	return c, fs
}
