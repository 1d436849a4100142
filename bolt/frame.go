package bolt

import (
	"encoding/binary"
	"io"

	"github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"
)

// maxChunkSize is the largest payload a single chunk header can carry; the
// frame writer splits a longer message across several chunks.
const maxChunkSize = 65535

// writeFrame writes payload as one or more length-prefixed chunks
// terminated by a zero-length chunk, to w.
func writeFrame(w io.Writer, payload []byte) error {
	for len(payload) > 0 {
		n := len(payload)
		if n > maxChunkSize {
			n = maxChunkSize
		}
		if err := writeChunk(w, payload[:n]); err != nil {
			return err
		}
		payload = payload[n:]
	}
	var end [2]byte
	if _, err := w.Write(end[:]); err != nil {
		return wrapIOErr(err)
	}
	return nil
}

func writeChunk(w io.Writer, chunk []byte) error {
	var header [2]byte
	binary.BigEndian.PutUint16(header[:], uint16(len(chunk)))
	if _, err := w.Write(header[:]); err != nil {
		return wrapIOErr(err)
	}
	if _, err := w.Write(chunk); err != nil {
		return wrapIOErr(err)
	}
	return nil
}

// readFrame reads chunks from r until the terminating zero-length chunk and
// returns their concatenated payload.
func readFrame(r io.Reader) ([]byte, error) {
	var out []byte
	var header [2]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return nil, wrapIOErr(err)
		}
		chunkLen := binary.BigEndian.Uint16(header[:])
		if chunkLen == 0 {
			return out, nil
		}
		chunk := make([]byte, chunkLen)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, wrapIOErr(err)
		}
		out = append(out, chunk...)
	}
}

func wrapIOErr(err error) error {
	if err == io.EOF {
		return boltz.Wrap(boltz.KindConnectionClosed, err, "transport closed")
	}
	return boltz.Wrap(boltz.KindConnectionClosed, err, "transport I/O error")
}
