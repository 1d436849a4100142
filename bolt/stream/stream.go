package stream

import (
	"github.com/neo4j-contrib/bolt-cypher-driver/bolt"
	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
	"github.com/neo4j-contrib/bolt-cypher-driver/values"
)

// Options bounds a Stream's consumption of its underlying query.
type Options struct {
	// FetchSize is the number of records requested per PULL. <= 0 means
	// fetch everything in a single PULL.
	FetchSize int64
	// MaxRows caps the total number of records the Stream will return,
	// discarding the remainder of the server-side result once reached.
	// <= 0 means unbounded.
	MaxRows int64
}

// Stream is a finite, non-restartable sequence of records produced by a
// RUN, advanced lazily by issuing PULL as the caller consumes it.
type Stream struct {
	conn    *bolt.Conn
	qid     int64
	opts    Options
	columns []string
	index   map[string]int

	buf      []values.List
	bufPos   int
	hasMore  bool
	consumed bool
	rowsSeen int64
	closed   bool
	current  *Record
}

// Open sends RUN for statement and returns a Stream over its results.
// qid is the multi-statement query id the server assigned in the RUN
// reply's metadata, or -1 if the connection does not support it (the
// Stream then always targets the most recently run query).
func Open(conn *bolt.Conn, statement string, parameters, extra *values.Map, opts Options) (*Stream, error) {
	reply, err := conn.Run(statement, parameters, extra)
	if err != nil {
		return nil, err
	}
	md, err := reply.AsMetadata()
	if err != nil {
		return nil, err
	}

	columns, index := fieldNames(md)

	qid := int64(-1)
	if v, ok := md.Get("qid"); ok {
		n, err := values.AsInt64(v)
		if err == nil {
			qid = n
		}
	}

	return &Stream{conn: conn, qid: qid, opts: opts, columns: columns, index: index, hasMore: true}, nil
}

func fieldNames(md *values.Map) ([]string, map[string]int) {
	v, ok := md.Get("fields")
	if !ok {
		return nil, map[string]int{}
	}
	list, ok := v.(values.List)
	if !ok {
		return nil, map[string]int{}
	}
	columns := make([]string, 0, len(list))
	index := make(map[string]int, len(list))
	for _, elem := range list {
		s, ok := elem.(values.String)
		if !ok {
			continue
		}
		index[string(s)] = len(columns)
		columns = append(columns, string(s))
	}
	return columns, index
}

// Columns returns the stream's declared field names in order.
func (s *Stream) Columns() []string {
	return s.columns
}

// Next advances to and returns the next Record, fetching more from the
// server as needed. It returns (nil, nil) once the stream is exhausted,
// either because the server has no more records or because MaxRows was
// reached.
func (s *Stream) Next() (*Record, error) {
	if s.closed {
		return nil, boltz.New(boltz.KindConnectionClosed, "stream is closed")
	}
	if s.current != nil {
		s.current.close()
		s.current = nil
	}
	if s.opts.MaxRows > 0 && s.rowsSeen >= s.opts.MaxRows {
		return nil, nil
	}
	if s.bufPos >= len(s.buf) {
		if err := s.fill(); err != nil {
			return nil, err
		}
		if s.bufPos >= len(s.buf) {
			return nil, nil
		}
	}
	row := s.buf[s.bufPos]
	s.bufPos++
	s.rowsSeen++
	s.current = newRecord(s.columns, s.index, row)
	return s.current, nil
}

func (s *Stream) fill() error {
	if s.consumed || !s.hasMore {
		return nil
	}
	n := s.opts.FetchSize
	if n <= 0 {
		n = -1
	}
	records, hasMore, err := s.conn.Pull(n, s.qid)
	if err != nil {
		return err
	}
	s.buf = records
	s.bufPos = 0
	s.hasMore = hasMore
	if !hasMore {
		s.consumed = true
	}
	return nil
}

// Close discards any remaining server-side records and marks the stream
// unusable. Calling Close on an already-exhausted stream is a no-op send.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.current != nil {
		s.current.close()
		s.current = nil
	}
	if s.consumed {
		return nil
	}
	return s.conn.Discard(-1, s.qid)
}
