package simnet

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tcfw/rewardchain/internal/coinflip"
	"github.com/tcfw/rewardchain/pkg/consensus"
	"github.com/tcfw/rewardchain/pkg/storage"
)

// ParticipantSigner signs on behalf of a registered participant.
type ParticipantSigner interface {
	SignAs(addr storage.ParticipantID, payload []byte) (string, error)
}

var _ consensus.Acceptor = (*Acceptor)(nil)

// Acceptor answers challenges for the winner with a fixed chance per poll.
type Acceptor struct {
	coin   *coinflip.Coin
	rate   float64
	signer ParticipantSigner
}

func NewAcceptor(coin *coinflip.Coin, rate float64, signer ParticipantSigner) *Acceptor {
	return &Acceptor{coin: coin, rate: rate, signer: signer}
}

func (a *Acceptor) Respond(ctx context.Context, c consensus.Challenge) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	if !a.coin.Chance(a.rate) {
		return "", false, nil
	}

	sig, err := a.signer.SignAs(c.Winner, consensus.AcceptancePayload(c.ID, c.Winner))
	if err != nil {
		return "", false, errors.Wrap(err, "signing acceptance")
	}

	return sig, true, nil
}
