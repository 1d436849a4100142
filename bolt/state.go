package bolt

import "github.com/neo4j-contrib/bolt-cypher-driver/internal/boltz"

// State is a connection's position in the Bolt request/response protocol.
// Every request sent through Conn's non-pipelined calls (HELLO, Run,
// BeginTx, Commit, Rollback, Discard, Reset) is checked against the current
// State before it is allowed onto the wire; Pipeline and Pull messages are
// checked when their reply arrives.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateReady
	StateStreaming
	StateTxReady
	StateTxStreaming
	StateFailed
	StateInterrupted
	StateDefunct
)

// String renders the State using its category name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnected:
		return "Connected"
	case StateReady:
		return "Ready"
	case StateStreaming:
		return "Streaming"
	case StateTxReady:
		return "TxReady"
	case StateTxStreaming:
		return "TxStreaming"
	case StateFailed:
		return "Failed"
	case StateInterrupted:
		return "Interrupted"
	case StateDefunct:
		return "Defunct"
	default:
		return "Unknown"
	}
}

// requestKind identifies the outgoing message kinds the state machine
// reasons about; several are distinguished further by their outcome (RUN
// that fails vs. RUN that succeeds), handled in transition().
type requestKind int

const (
	reqHello requestKind = iota
	reqRunAuto
	reqBegin
	reqRunInTx
	reqPullMore
	reqPullLast
	reqDiscard
	reqCommit
	reqRollback
	reqReset
	reqGoodbye
)

// transition computes the next State given the current one, the kind of
// request being sent, and whether its reply was a success. A connection
// already Defunct never leaves that state: every subsequent operation
// fails fast without touching the transport.
func transition(current State, kind requestKind, ok bool) (State, error) {
	if current == StateDefunct {
		return StateDefunct, boltz.New(boltz.KindConnectionClosed, "connection is defunct")
	}
	if kind == reqGoodbye {
		return StateDisconnected, nil
	}
	if !ok {
		if kind == reqReset {
			return StateDefunct, nil
		}
		return StateFailed, nil
	}
	if kind == reqReset {
		return StateReady, nil
	}

	switch current {
	case StateDisconnected:
		if kind == reqHello {
			return StateConnected, nil
		}
	case StateConnected:
		if kind == reqHello {
			return StateReady, nil
		}
	case StateReady:
		switch kind {
		case reqRunAuto:
			return StateStreaming, nil
		case reqBegin:
			return StateTxReady, nil
		}
	case StateTxReady:
		switch kind {
		case reqRunInTx:
			return StateTxStreaming, nil
		case reqCommit, reqRollback:
			return StateReady, nil
		}
	case StateStreaming:
		switch kind {
		case reqPullMore:
			return StateStreaming, nil
		case reqPullLast, reqDiscard:
			return StateReady, nil
		}
	case StateTxStreaming:
		switch kind {
		case reqPullMore:
			return StateTxStreaming, nil
		case reqPullLast, reqDiscard:
			return StateTxReady, nil
		}
	case StateFailed:
		if kind == reqReset {
			return StateReady, nil
		}
		return StateFailed, boltz.New(boltz.KindProtocolViolation, "connection is failed, only RESET is accepted")
	case StateInterrupted:
		if kind == reqReset {
			return StateReady, nil
		}
		return StateInterrupted, boltz.New(boltz.KindProtocolViolation, "connection is interrupted, only RESET is accepted")
	}

	return current, boltz.New(boltz.KindProtocolViolation, "message not valid in state %s", current)
}
