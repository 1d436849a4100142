package bolt

import (
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltlog"
	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// Conn is not safe for concurrent use by more than one goroutine: replies
// are matched to requests by send order, so interleaved callers would
// corrupt the pending queue.
type Conn struct {
	connID  string
	netConn net.Conn
	log     *logrus.Entry
	timeout time.Duration

	version  ProtocolVersion
	utcPatch bool
	unpacker *unpacker

	state   State
	pending pendingQueue
}

// ID returns the connection's correlation id, generated once at Dial time
// and carried in every log entry this Conn emits.
func (c *Conn) ID() string {
	return c.connID
}

// Config configures a new Conn.
type Config struct {
	// Address is the host:port the transport dials.
	Address string
	// Timeout bounds every read and write on the underlying transport.
	Timeout time.Duration
	// AuthToken becomes the HELLO message's "authorization" extra, e.g.
	// {"scheme": "basic", "principal": ..., "credentials": ...}.
	AuthToken *values.Map
	// UserAgent identifies the client in the HELLO message.
	UserAgent string
	// Log receives connection-lifecycle entries. A nil Log uses the
	// package's discarding default.
	Log *logrus.Entry
}

// Dial opens a TCP transport to cfg.Address, performs the Bolt handshake,
// and sends HELLO. The returned Conn is in StateReady on success.
func Dial(cfg Config) (*Conn, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	netConn, err := net.DialTimeout("tcp", cfg.Address, timeout)
	if err != nil {
		return nil, boltz.Wrap(boltz.KindConnectionClosed, err, "dial %s", cfg.Address)
	}

	connID := uuid.New().String()
	log := cfg.Log
	if log == nil {
		log = boltlog.For("bolt.conn")
	}
	log = log.WithField("connId", connID)

	c := &Conn{
		connID:  connID,
		netConn: netConn,
		log:     log,
		timeout: timeout,
		state:   StateDisconnected,
	}

	if err := c.handshake(); err != nil {
		c.fail(err)
		return nil, err
	}

	if err := c.hello(cfg); err != nil {
		c.fail(err)
		return nil, err
	}

	return c, nil
}

func (c *Conn) handshake() error {
	deadline := time.Now().Add(c.timeout)
	if err := c.netConn.SetDeadline(deadline); err != nil {
		return boltz.Wrap(boltz.KindConnectionClosed, err, "set handshake deadline")
	}
	version, err := negotiateVersion(c.netConn)
	if err != nil {
		return err
	}
	c.version = version
	c.utcPatch = usesUTCDateTime(version)
	c.unpacker = newUnpacker(c.utcPatch)
	c.state = StateConnected
	c.log.WithField("version", version).Debug("negotiated bolt protocol version")
	return nil
}

func (c *Conn) hello(cfg Config) error {
	extra := values.NewMap()
	agent := cfg.UserAgent
	if agent == "" {
		agent = "bolt-cypher-driver/1.0"
	}
	extra.Set("user_agent", values.String(agent))
	auth := cfg.AuthToken
	if auth == nil {
		auth = values.NewMap()
		auth.Set("scheme", values.String("none"))
	}
	auth.Range(func(k string, v values.Value) bool {
		extra.Set(k, v)
		return true
	})

	reply, err := c.roundTrip(NewHelloMessage(extra), reqHello)
	if err != nil {
		return err
	}
	if reply.IsFailure() {
		return reply.FailureError()
	}
	return nil
}

// roundTrip sends a single message, advances the state machine on its
// reply, and returns the reply. It is the non-pipelined primitive every
// higher-level call (hello, BeginTx, Run without pipelining) builds on.
// A request the current State does not accept fails without touching the
// transport.
func (c *Conn) roundTrip(m Message, kind requestKind) (Message, error) {
	if _, terr := transition(c.state, kind, true); terr != nil {
		return Message{}, terr
	}
	if err := c.send(m); err != nil {
		return Message{}, err
	}
	reply, err := c.recv()
	if err != nil {
		return Message{}, err
	}
	next, terr := transition(c.state, kind, !reply.IsFailure())
	c.state = next
	if terr != nil {
		return reply, terr
	}
	return reply, nil
}

func (c *Conn) send(m Message) error {
	if c.state == StateDefunct {
		return boltz.New(boltz.KindConnectionClosed, "connection is defunct")
	}
	if err := c.netConn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return boltz.Wrap(boltz.KindConnectionClosed, err, "set write deadline")
	}
	if err := encodeMessage(c.netConn, m, c.utcPatch); err != nil {
		c.fail(err)
		return err
	}
	return nil
}

func (c *Conn) recv() (Message, error) {
	if err := c.netConn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return Message{}, boltz.Wrap(boltz.KindConnectionClosed, err, "set read deadline")
	}
	reply, err := decodeMessage(c.netConn, c.unpacker)
	if err != nil {
		c.fail(err)
		return Message{}, err
	}
	return reply, nil
}

// fail marks the connection Defunct after an unrecoverable I/O or protocol
// error: every subsequent call fails fast without touching the transport.
func (c *Conn) fail(err error) {
	c.log.WithError(err).Warn("connection defunct")
	c.state = StateDefunct
}

// State reports the connection's current position in the protocol state
// machine.
func (c *Conn) State() State {
	return c.state
}

// Version reports the negotiated protocol version.
func (c *Conn) Version() ProtocolVersion {
	return c.version
}

// Pipeline queues message m without waiting for its reply, advancing the
// pending FIFO. A matching PollReply call must eventually read its result
// in the order messages were pipelined.
func (c *Conn) Pipeline(m Message, kind requestKind) error {
	if err := c.send(m); err != nil {
		return err
	}
	c.pending.push(kind)
	return nil
}

// PollReply reads the oldest pipelined reply and advances the state
// machine for it. After a FAILURE reply it also reads and discards the
// IGNORED replies the server sends for every request pipelined after the
// failed one.
func (c *Conn) PollReply() (Message, error) {
	if c.pending.len() == 0 {
		return Message{}, boltz.New(boltz.KindProtocolViolation, "no pipelined request is pending")
	}
	kind := c.pending.pop()
	reply, err := c.recv()
	if err != nil {
		return Message{}, err
	}
	next, terr := transition(c.state, kind, !reply.IsFailure())
	c.state = next
	if reply.IsFailure() {
		for range c.pending.failRest() {
			if _, err := c.recv(); err != nil {
				return reply, err
			}
		}
	}
	if terr != nil {
		return reply, terr
	}
	return reply, nil
}

// Reset sends RESET, interrupting any in-flight stream and discarding
// pipelined IGNORED replies, and returns the connection to Ready.
func (c *Conn) Reset() error {
	dropped := c.pending.failRest()
	for range dropped {
		if _, err := c.recv(); err != nil {
			return err
		}
	}
	reply, err := c.roundTrip(NewResetMessage(), reqReset)
	if err != nil {
		return err
	}
	if reply.IsFailure() {
		c.fail(reply.FailureError())
		return reply.FailureError()
	}
	return nil
}

// Close sends GOODBYE and closes the transport. The server sends no reply
// to GOODBYE.
func (c *Conn) Close() error {
	if c.state == StateDefunct || c.state == StateDisconnected {
		return c.netConn.Close()
	}
	_ = c.send(NewGoodbyeMessage())
	c.state = StateDisconnected
	return c.netConn.Close()
}

// Run sends RUN for statement, choosing the auto-commit or in-transaction
// request kind from the connection's current state.
func (c *Conn) Run(statement string, parameters, extra *values.Map) (Message, error) {
	logID := uuid.New().String()
	c.log.WithFields(logrus.Fields{"logId": logID, "statement": statement}).Debug("running statement")

	kind := reqRunAuto
	if c.state == StateTxReady {
		kind = reqRunInTx
	}
	reply, err := c.roundTrip(NewRunMessage(statement, parameters, extra), kind)
	if err != nil {
		return reply, err
	}
	if reply.IsFailure() {
		return reply, reply.FailureError()
	}
	return reply, nil
}

// BeginTx sends BEGIN, opening an explicit transaction.
func (c *Conn) BeginTx(extra *values.Map) error {
	reply, err := c.roundTrip(NewBeginMessage(extra), reqBegin)
	if err != nil {
		return err
	}
	if reply.IsFailure() {
		return reply.FailureError()
	}
	return nil
}

// Commit sends COMMIT, closing the open transaction.
func (c *Conn) Commit() error {
	reply, err := c.roundTrip(NewCommitMessage(), reqCommit)
	if err != nil {
		return err
	}
	if reply.IsFailure() {
		return reply.FailureError()
	}
	return nil
}

// Rollback sends ROLLBACK, closing the open transaction.
func (c *Conn) Rollback() error {
	reply, err := c.roundTrip(NewRollbackMessage(), reqRollback)
	if err != nil {
		return err
	}
	if reply.IsFailure() {
		return reply.FailureError()
	}
	return nil
}

// Pull sends PULL for up to n records of query qid (-1 for the most recent
// query), returning each RECORD reply until the terminal SUCCESS/FAILURE.
// hasMore reports whether the server's SUCCESS carried has_more=true.
func (c *Conn) Pull(n, qid int64) (records []values.List, hasMore bool, err error) {
	if err := c.send(NewPullMessage(n, qid)); err != nil {
		return nil, false, err
	}
	for {
		reply, err := c.recv()
		if err != nil {
			return nil, false, err
		}
		if reply.IsRecord() {
			row, err := reply.AsRecord()
			if err != nil {
				return nil, false, err
			}
			records = append(records, row)
			continue
		}

		if !reply.IsSuccess() && !reply.IsFailure() {
			return records, false, protoErr("unexpected reply signature %#x during PULL", reply.Signature)
		}
		ok := reply.IsSuccess()
		if ok {
			md, err := reply.AsMetadata()
			if err == nil {
				if v, present := md.Get("has_more"); present {
					if b, ok := v.(values.Boolean); ok {
						hasMore = bool(b)
					}
				}
			}
		}
		kind := reqPullLast
		if hasMore {
			kind = reqPullMore
		}
		next, terr := transition(c.state, kind, ok)
		c.state = next
		if !ok {
			return records, false, reply.FailureError()
		}
		if terr != nil {
			return records, false, terr
		}
		return records, hasMore, nil
	}
}

// Discard sends DISCARD for up to n remaining records of query qid (-1 for
// the most recent query, -1 for n meaning all remaining records).
func (c *Conn) Discard(n, qid int64) error {
	reply, err := c.roundTrip(NewDiscardMessage(n, qid), reqDiscard)
	if err != nil {
		return err
	}
	if reply.IsFailure() {
		return reply.FailureError()
	}
	return nil
}
