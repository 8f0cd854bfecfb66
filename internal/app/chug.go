package app

import (
	"context"
	"fmt"

	"smor/internal/domain"
)

// chug runs one chug attempt and reports whether it succeeded. Optional chugs
// ask first and default to declining.
func (e *Engine) chug(ctx context.Context, p *domain.Player, spec domain.ChugSpec, action RollAction) (bool, error) {
	if !spec.Forced {
		prompt := fmt.Sprintf("%s, vil du chugge %s? (kast %d+ for %s, feil = -%d minnepoeng)",
			p.Name, spec.Item, e.rules.ChugTarget, rewardText(spec.Reward), spec.Penalty)
		options := []string{"Chug " + spec.Item, "Feig ut"}
		choice, err := e.askOption(ctx, p, TopicChug, prompt, options, ChugDecline, SuspendChugChoice)
		if err != nil {
			return false, err
		}
		if choice != ChugAttempt {
			e.logf(domain.LogInfo, "😅 %s feiger ut og chugger ikke %s.", p.Name, spec.Item)
			return false, nil
		}
	}

	e.logf(domain.LogInfo, "🍺 %s prøver å chugge %s!", p.Name, spec.Item)
	e.logf(domain.LogInfo, "Du må kaste %d eller høyere for å klare det!", e.rules.ChugTarget)
	res, err := e.rollSkill(ctx, p, action, e.rules.ChugTarget)
	if err != nil {
		return false, err
	}
	if res.Success {
		spec.Reward.Apply(p)
		e.logf(domain.LogSuccess, "🏆 %s klarte å chugge %s og får %s!", p.Name, spec.Item, rewardText(spec.Reward))
		return true, nil
	}
	p.AddScore(-spec.Penalty)
	e.logf(domain.LogError, "😔 %s klarte ikke å chugge %s og mister %d minnepoeng!", p.Name, spec.Item, spec.Penalty)
	return false, nil
}

func rewardText(r domain.Reward) string {
	if r.Kind == domain.RewardIntoxication {
		return fmt.Sprintf("%.1f promille", r.Amount)
	}
	return fmt.Sprintf("%d minnepoeng", int(r.Amount))
}
