// Package dice implements the dice orchestrator: server-side rolls, check
// evaluation and the pending sets of related rolls a narrator turn opens
package dice

//go:generate mockgen -destination=mock/mock_service.go -package=dicemock github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice Service

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
)

// Service defines the interface for dice operations
type Service interface {
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// Pending roll sets
	OpenRollSet(ctx context.Context, input *OpenRollSetInput) (*OpenRollSetOutput, error)
	RecordResult(ctx context.Context, input *RecordResultInput) (*RecordResultOutput, error)
	GetRollSet(ctx context.Context, input *GetRollSetInput) (*GetRollSetOutput, error)
	ClearRollSet(ctx context.Context, input *ClearRollSetInput) (*ClearRollSetOutput, error)
}

// Config holds the dependencies for the dice orchestrator
type Config struct {
	PendingRollRepo pendingroll.Repository

	// Roller defaults to dice.DefaultRoller
	Roller dice.Roller

	// SetTTL defaults to pendingroll.DefaultTTL
	SetTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.PendingRollRepo == nil {
		vb.RequiredField("PendingRollRepo")
	}
	if c.SetTTL < 0 {
		vb.InvalidField("SetTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	pendingRollRepo pendingroll.Repository
	resolver        *Resolver
	setTTL          time.Duration
}

// NewOrchestrator creates a new dice orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.SetTTL
	if ttl == 0 {
		ttl = pendingroll.DefaultTTL
	}

	return &orchestrator{
		pendingRollRepo: cfg.PendingRollRepo,
		resolver:        NewResolver(cfg.Roller),
		setTTL:          ttl,
	}, nil
}

// RollDice rolls on the server. Malformed expressions roll 1d20.
func (o *orchestrator) RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	outcome, err := o.resolver.RollExpression(input.Expression, input.Reason)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Dice rolled",
		"expression", outcome.Expression,
		"reason", outcome.Reason,
		"total", outcome.Total,
	)

	return &RollDiceOutput{Outcome: outcome}, nil
}

// OpenRollSet stores the related requests of one narrator turn, replacing any open set
func (o *orchestrator) OpenRollSet(ctx context.Context, input *OpenRollSetInput) (*OpenRollSetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	if len(input.Requests) == 0 {
		return nil, errors.InvalidArgument("at least one roll request is required")
	}

	set := &pendingroll.PendingRollSet{
		SessionID:   input.SessionID,
		CharacterID: input.CharacterID,
		Rolls:       make([]pendingroll.PendingRoll, 0, len(input.Requests)),
	}
	for _, req := range input.Requests {
		set.Rolls = append(set.Rolls, pendingroll.PendingRoll{
			Expression: req.Expression,
			Reason:     req.Reason,
			DC:         req.DC,
		})
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = o.setTTL
	}

	out, err := o.pendingRollRepo.Create(ctx, pendingroll.CreateInput{Set: set, TTL: ttl})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open roll set")
	}

	slog.InfoContext(ctx, "Roll set opened",
		"session_id", input.SessionID,
		"rolls", len(set.Rolls),
	)

	return &OpenRollSetOutput{Set: out.Set}, nil
}

// RecordResult evaluates a reported roll and, when a set is open for the
// session, files it there. Results may arrive in any order. A completed set
// stays stored until the caller closes it with ClearRollSet, so a resent
// result for one of its rolls reports the set complete again.
func (o *orchestrator) RecordResult(ctx context.Context, input *RecordResultInput) (*RecordResultOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	count, sides, _ := narrative.ParseExpression(input.Expression)
	expression := narrative.FormatExpression(count, sides)
	reason, dc := narrative.SplitReason(input.Reason)

	var (
		outcome     *Outcome
		redelivered bool
	)
	updated, err := o.pendingRollRepo.Update(ctx, pendingroll.UpdateInput{
		SessionID: input.SessionID,
		Fn: func(set *pendingroll.PendingRollSet) (bool, error) {
			outcome, redelivered = nil, false

			if set.Complete() {
				idx := set.MatchResolved(expression, reason)
				if idx < 0 {
					return false, nil
				}
				done := set.Rolls[idx]
				outcome = Evaluate(done.Expression, done.Reason, *done.Result, done.DC)
				redelivered = true
				return false, nil
			}

			idx := set.Match(expression, reason)
			if idx < 0 {
				return false, nil
			}

			pending := &set.Rolls[idx]
			rollDC := dc
			if rollDC == nil {
				rollDC = pending.DC
			}
			outcome = Evaluate(pending.Expression, pending.Reason, input.Result, rollDC)

			result := input.Result
			pending.Result = &result
			pending.Success = outcome.Success
			pending.Tier = outcome.Tier
			return true, nil
		},
	})
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, errors.Wrap(err, "failed to record roll result")
		}
		return &RecordResultOutput{
			Outcome:  Evaluate(expression, reason, input.Result, dc),
			Complete: true,
		}, nil
	}

	if outcome == nil {
		// not part of the open set, forward it on its own
		slog.DebugContext(ctx, "Roll result does not match open set",
			"session_id", input.SessionID,
			"reason", reason,
		)
		return &RecordResultOutput{
			Outcome:  Evaluate(expression, reason, input.Result, dc),
			Complete: true,
		}, nil
	}

	set := updated.Set
	if !set.Complete() {
		return &RecordResultOutput{Outcome: outcome, Set: set}, nil
	}

	slog.InfoContext(ctx, "Roll set complete",
		"session_id", input.SessionID,
		"rolls", len(set.Rolls),
		"redelivered", redelivered,
	)

	return &RecordResultOutput{
		Outcome:     outcome,
		Set:         set,
		Complete:    true,
		Redelivered: redelivered,
	}, nil
}

// GetRollSet retrieves the open set for a session
func (o *orchestrator) GetRollSet(ctx context.Context, input *GetRollSetInput) (*GetRollSetOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.pendingRollRepo.Get(ctx, pendingroll.GetInput{SessionID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get roll set")
	}

	return &GetRollSetOutput{Set: out.Set}, nil
}

// ClearRollSet discards the open set for a session
func (o *orchestrator) ClearRollSet(ctx context.Context, input *ClearRollSetInput) (*ClearRollSetOutput, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	out, err := o.pendingRollRepo.Delete(ctx, pendingroll.DeleteInput{SessionID: input.SessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete roll set")
	}

	slog.InfoContext(ctx, "Roll set cleared",
		"session_id", input.SessionID,
		"rolls_deleted", out.RollsDeleted,
	)

	return &ClearRollSetOutput{RollsDeleted: out.RollsDeleted}, nil
}
