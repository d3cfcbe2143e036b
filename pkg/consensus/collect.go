package consensus

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/rewardchain/pkg/storage"
	"golang.org/x/sync/errgroup"
)

// collectMetrics queries every participant concurrently. Results keep the
// order of participants.
func collectMetrics(ctx context.Context, tp TrafficProvider, participants []storage.ParticipantID) ([]*Metrics, error) {
	out := make([]*Metrics, len(participants))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range participants {
		i, p := i, p
		g.Go(func() error {
			m, err := tp.Metrics(gctx, p)
			if err != nil {
				return errors.Wrapf(ErrCollaboratorUnavailable, "traffic metrics for %s: %s", p, err)
			}
			if m == nil {
				return errors.Wrapf(ErrCollaboratorUnavailable, "no traffic metrics for %s", p)
			}
			out[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// collectReports verifies every participant concurrently. A failed
// verification leaves a nil report for that participant.
func collectReports(ctx context.Context, v Verifier, participants []storage.ParticipantID, l *logrus.Entry) ([]*Report, error) {
	out := make([]*Report, len(participants))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range participants {
		i, p := i, p
		g.Go(func() error {
			r, err := v.Verify(gctx, p)
			if err != nil {
				l.WithError(err).WithField("participant", p).Debug("verification failed")
				return nil
			}
			out[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(ErrCollaboratorUnavailable, "verification: %s", err)
	}

	return out, nil
}
