package bolt

import (
	"io"

	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
	"github.com/neo4j-contrib/bolt-cypher-driver/packstream"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// Message is a single Bolt protocol message: a top-level PackStream
// structure whose signature identifies its kind and whose fields are
// positional, generalising the request/summary message set into one shape
// instead of one Go type per message.
type Message struct {
	Signature byte
	Fields    []values.Value
}

// encodeMessage writes m as a chunked frame to w.
func encodeMessage(w io.Writer, m Message, utcPatch bool) error {
	pw := packstream.NewWriter()
	if err := pw.WriteStructHeader(len(m.Fields), m.Signature); err != nil {
		return err
	}
	for _, f := range m.Fields {
		if err := packValue(pw, f, utcPatch); err != nil {
			return err
		}
	}
	return writeFrame(w, pw.Bytes())
}

// decodeMessage reads one chunked frame from r and unpacks it as a
// top-level message structure.
func decodeMessage(r io.Reader, u *unpacker) (Message, error) {
	payload, err := readFrame(r)
	if err != nil {
		return Message{}, err
	}
	pr := packstream.NewReader(payload)
	n, sig, err := pr.ReadStructHeader()
	if err != nil {
		return Message{}, liftCodecErr(err)
	}
	if want, known := fieldCount(sig); known && n != want {
		return Message{}, protoErr("message signature %#x declared %d fields, want %d", sig, n, want)
	}
	fields := make([]values.Value, n)
	for i := 0; i < n; i++ {
		v, err := u.unpackValue(pr)
		if err != nil {
			return Message{}, err
		}
		fields[i] = v
	}
	return Message{Signature: sig, Fields: fields}, nil
}

// NewHelloMessage builds a HELLO message carrying the connection's
// negotiated extra map (user_agent, auth scheme, routing context, ...).
func NewHelloMessage(extra *values.Map) Message {
	return Message{Signature: SigHello, Fields: []values.Value{extra}}
}

// NewGoodbyeMessage builds a GOODBYE message. The server sends no reply.
func NewGoodbyeMessage() Message {
	return Message{Signature: SigGoodbye}
}

// NewResetMessage builds a RESET message, used both for explicit session
// reset and to interrupt a streaming or failed connection.
func NewResetMessage() Message {
	return Message{Signature: SigReset}
}

// NewRunMessage builds a RUN message for statement with its parameters and
// an extra metadata map (bookmarks, tx_timeout, mode, db, imp_user, ...).
func NewRunMessage(statement string, parameters *values.Map, extra *values.Map) Message {
	if parameters == nil {
		parameters = values.NewMap()
	}
	if extra == nil {
		extra = values.NewMap()
	}
	return Message{Signature: SigRun, Fields: []values.Value{values.String(statement), parameters, extra}}
}

// NewBeginMessage builds a BEGIN message opening an explicit transaction.
func NewBeginMessage(extra *values.Map) Message {
	if extra == nil {
		extra = values.NewMap()
	}
	return Message{Signature: SigBegin, Fields: []values.Value{extra}}
}

// NewCommitMessage builds a COMMIT message.
func NewCommitMessage() Message {
	return Message{Signature: SigCommit}
}

// NewRollbackMessage builds a ROLLBACK message.
func NewRollbackMessage() Message {
	return Message{Signature: SigRollback}
}

// NewDiscardMessage builds a DISCARD message. n is the number of remaining
// records to discard, or -1 for all of them.
func NewDiscardMessage(n int64, qid int64) Message {
	extra := values.NewMap()
	extra.Set("n", values.Integer(n))
	if qid >= 0 {
		extra.Set("qid", values.Integer(qid))
	}
	return Message{Signature: SigDiscard, Fields: []values.Value{extra}}
}

// NewPullMessage builds a PULL message. n is the number of records to
// fetch, or -1 for all of them.
func NewPullMessage(n int64, qid int64) Message {
	extra := values.NewMap()
	extra.Set("n", values.Integer(n))
	if qid >= 0 {
		extra.Set("qid", values.Integer(qid))
	}
	return Message{Signature: SigPull, Fields: []values.Value{extra}}
}

// AsMetadata interprets a SUCCESS or FAILURE message's single field as its
// metadata map.
func (m Message) AsMetadata() (*values.Map, error) {
	if len(m.Fields) != 1 {
		return nil, protoErr("expected 1 metadata field, got %d", len(m.Fields))
	}
	md, ok := m.Fields[0].(*values.Map)
	if !ok {
		return nil, protoErr("expected metadata map, got %T", m.Fields[0])
	}
	return md, nil
}

// AsRecord interprets a RECORD message's single field as its row of values.
func (m Message) AsRecord() (values.List, error) {
	if len(m.Fields) != 1 {
		return nil, protoErr("expected 1 record field, got %d", len(m.Fields))
	}
	row, ok := m.Fields[0].(values.List)
	if !ok {
		return nil, protoErr("expected record list, got %T", m.Fields[0])
	}
	return row, nil
}

// IsSuccess, IsFailure, IsIgnored and IsRecord classify a response message
// by signature.
func (m Message) IsSuccess() bool { return m.Signature == SigSuccess }
func (m Message) IsFailure() bool { return m.Signature == SigFailure }
func (m Message) IsIgnored() bool { return m.Signature == SigIgnored }
func (m Message) IsRecord() bool  { return m.Signature == SigRecord }

// FailureError builds the ServerFailure error described by a FAILURE
// message's metadata, classifying it by Neo4j status code.
func (m Message) FailureError() error {
	md, err := m.AsMetadata()
	if err != nil {
		return err
	}
	code, _ := md.Get("code")
	msg, _ := md.Get("message")
	codeStr, _ := code.(values.String)
	msgStr, _ := msg.(values.String)
	return boltz.NewServerFailure(string(codeStr), string(msgStr))
}
