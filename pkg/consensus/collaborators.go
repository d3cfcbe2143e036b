//go:generate go run github.com/vektra/mockery/v2 --name Directory
//go:generate go run github.com/vektra/mockery/v2 --name TrafficProvider
//go:generate go run github.com/vektra/mockery/v2 --name Verifier
//go:generate go run github.com/vektra/mockery/v2 --name Authority

package consensus

import (
	"context"

	"github.com/tcfw/rewardchain/pkg/storage"
)

// Directory lists participants in a stable order for the duration of a tick.
type Directory interface {
	ActiveParticipants(context.Context) ([]storage.ParticipantID, error)
}

type Metrics struct {
	Participant storage.ParticipantID
	PacketsIn   uint64
	PacketsOut  uint64
	ProofHash   string
	LatencyMs   float64
}

func (m *Metrics) Total() uint64 {
	return m.PacketsIn + m.PacketsOut
}

type TrafficProvider interface {
	Metrics(context.Context, storage.ParticipantID) (*Metrics, error)
}

// Report is a verifier outcome. Degraded is set when the proof search hit its
// iteration ceiling; the report is still usable.
type Report struct {
	Participant  storage.ParticipantID
	Verified     bool
	ProofToken   string
	Degraded     bool
	LatencyAvgMs float64
}

type Verifier interface {
	Verify(context.Context, storage.ParticipantID) (*Report, error)
}

// Authority issues the node's signatures and checks participant signatures.
type Authority interface {
	Sign(payload []byte) (string, error)
	Verify(addr storage.ParticipantID, payload []byte, sig string) bool
}

// Acceptor relays a winner's answer to a challenge. ok is false while the
// winner has not answered.
type Acceptor interface {
	Respond(context.Context, Challenge) (sig string, ok bool, err error)
}
