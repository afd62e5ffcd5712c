package flow

import (
	"context"
	"time"

	"github.com/lite-lake/tenten-ddns/internal/domain/contract"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

// waitForChallenge polls the challenge script until it reports completion
// or the window closes. It reports whether completion was observed; a
// closed window is not an error.
func waitForChallenge(ctx context.Context, page contract.Page, s Settings) (bool, error) {
	log := logger.FromContext(ctx)
	deadline := time.Now().Add(s.Timing.ChallengePollWindow)

	for time.Now().Before(deadline) {
		v, err := page.Evaluate(s.Selectors.ChallengeScript)
		if err != nil {
			log.Debug("challenge probe failed", "error", err)
		} else if done, _ := v.(bool); done {
			return true, nil
		}
		if err := s.sleep(ctx, jitter(s.Timing.ChallengePollMin, s.Timing.ChallengePollMax)); err != nil {
			return false, err
		}
	}
	return false, nil
}
