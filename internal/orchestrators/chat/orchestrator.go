// Package chat implements the narrator turn orchestrator
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/dungeon-master/internal/audit"
	"github.com/KirkDiggler/dungeon-master/internal/clients/llm"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/idgen"
	messagerepo "github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
	sessionrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/session"
	"github.com/KirkDiggler/dungeon-master/internal/services/character"
	"github.com/KirkDiggler/dungeon-master/internal/services/chat"
)

const (
	// DefaultHistoryLimit is how many prior messages the narrator sees
	DefaultHistoryLimit = 20

	narrationTemperature = 0.8
	narrationMaxTokens   = 2000
)

// Message metadata keys
const (
	MetaType     = "type"
	MetaModel    = "model"
	MetaDiceType = "diceType"
	MetaReason   = "reason"
	MetaResult   = "result"
	MetaSuccess  = "success"
	MetaTier     = "tier"
)

// Config holds the dependencies for the chat orchestrator
type Config struct {
	SessionRepo     sessionrepo.Repository
	MessageRepo     messagerepo.Repository
	PendingRollRepo pendingroll.Repository

	CharacterService character.Service
	DiceService      dice.Service

	// LLMClient narrates turns; both operations fail without it
	LLMClient llm.Client

	// Classifier defaults to the keyword classifier
	Classifier narrative.Classifier

	MessageIDGenerator idgen.Generator

	// EventBus receives dice events; optional
	EventBus events.EventBus

	// HistoryLimit defaults to DefaultHistoryLimit
	HistoryLimit int

	// RequestTTL is how long processed request ids are remembered
	RequestTTL time.Duration

	// Model is used when a request does not name one; empty uses the client default
	Model string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.MessageRepo == nil {
		vb.RequiredField("MessageRepo")
	}
	if c.PendingRollRepo == nil {
		vb.RequiredField("PendingRollRepo")
	}
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}
	if c.DiceService == nil {
		vb.RequiredField("DiceService")
	}
	if c.MessageIDGenerator == nil {
		vb.RequiredField("MessageIDGenerator")
	}
	if c.HistoryLimit < 0 {
		vb.InvalidField("HistoryLimit", "must not be negative")
	}

	return vb.Build()
}

// Orchestrator implements the chat.Service interface
type Orchestrator struct {
	sessionRepo     sessionrepo.Repository
	messageRepo     messagerepo.Repository
	pendingRollRepo pendingroll.Repository
	characters      character.Service
	dice            dice.Service
	llmClient       llm.Client
	classifier      narrative.Classifier
	messageIDs      idgen.Generator
	bus             events.EventBus
	historyLimit    int
	requestTTL      time.Duration
	model           string
}

// New creates a new chat orchestrator
func New(cfg *Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	classifier := cfg.Classifier
	if classifier == nil {
		classifier = narrative.NewKeywordClassifier()
	}
	limit := cfg.HistoryLimit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	ttl := cfg.RequestTTL
	if ttl == 0 {
		ttl = pendingroll.DefaultTTL
	}

	return &Orchestrator{
		sessionRepo:     cfg.SessionRepo,
		messageRepo:     cfg.MessageRepo,
		pendingRollRepo: cfg.PendingRollRepo,
		characters:      cfg.CharacterService,
		dice:            cfg.DiceService,
		llmClient:       cfg.LLMClient,
		classifier:      classifier,
		messageIDs:      cfg.MessageIDGenerator,
		bus:             cfg.EventBus,
		historyLimit:    limit,
		requestTTL:      ttl,
		model:           cfg.Model,
	}, nil
}

// Ensure Orchestrator implements the Service interface
var _ chat.Service = (*Orchestrator)(nil)

// SubmitPlayerMessage records the player's message and produces the narrator's turn
func (o *Orchestrator) SubmitPlayerMessage(ctx context.Context, input *chat.SubmitPlayerMessageInput) (_ *chat.SubmitPlayerMessageOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("session_id", input.SessionID, vb)
	errors.ValidateRequired("content", strings.TrimSpace(input.Content), vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if o.llmClient == nil {
		return nil, errors.FailedPrecondition("narrator is not configured")
	}

	claimed, err := o.claim(ctx, input.SessionID, "chat", input.RequestID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			o.release(ctx, input.SessionID, claimed)
		}
	}()

	session, err := o.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	speaker, party, err := o.loadParty(ctx, session, input.CharacterID)
	if err != nil {
		return nil, err
	}

	// history is read before the player message lands so it is not sent twice
	history, err := o.history(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	in := &turnInput{
		session:   session,
		character: speaker,
		prompt: &PromptInput{
			Character: speaker,
			Party:     party,
			History:   history,
		},
		trailing: llm.Message{Role: llm.RoleUser, Content: input.Content},
		player: &entities.Message{
			SessionID: session.ID,
			Role:      entities.RoleUser,
			Content:   input.Content,
		},
		model: input.Model,
	}
	turn, err := o.narrate(ctx, in)
	if err != nil {
		return nil, err
	}

	return &chat.SubmitPlayerMessageOutput{
		PlayerMessage: in.player,
		Turn:          turn,
	}, nil
}

// ResolveDiceRoll records a player's roll. A lone roll, or the last roll of
// an open set, triggers the narrator's follow-up turn.
func (o *Orchestrator) ResolveDiceRoll(ctx context.Context, input *chat.ResolveDiceRollInput) (_ *chat.ResolveDiceRollOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("session_id", input.SessionID, vb)
	if input.Result < 1 {
		vb.InvalidField("result", "must be at least 1")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	claimed, err := o.claim(ctx, input.SessionID, "roll", input.RequestID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			o.release(ctx, input.SessionID, claimed)
		}
	}()

	session, err := o.getSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	recorded, err := o.dice.RecordResult(ctx, &dice.RecordResultInput{
		SessionID:  session.ID,
		Expression: input.Expression,
		Reason:     input.Reason,
		Result:     input.Result,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to record roll")
	}
	outcome := recorded.Outcome

	// a resent roll of a completed set is already in the log
	if !recorded.Redelivered {
		o.logRoll(ctx, session.ID, outcome)
	}

	output := &chat.ResolveDiceRollOutput{
		Outcome:     outcome,
		SetComplete: recorded.Complete,
		Set:         recorded.Set,
	}
	if !recorded.Complete {
		slog.InfoContext(ctx, "Roll recorded, waiting for set",
			"session_id", session.ID,
			"outstanding", recorded.Set.Outstanding())
		return output, nil
	}

	characterID := input.CharacterID
	if characterID == "" && recorded.Set != nil {
		characterID = recorded.Set.CharacterID
	}
	speaker, party, err := o.loadParty(ctx, session, characterID)
	if err != nil {
		return nil, err
	}

	var source core.Entity
	if speaker != nil {
		source = speaker
	}
	audit.Publish(ctx, o.bus, audit.EventDiceRolled, source, map[string]interface{}{
		audit.KeySessionID:  session.ID,
		audit.KeyExpression: outcome.Expression,
		audit.KeyReason:     outcome.Reason,
		audit.KeyTotal:      outcome.Total,
	})

	history, err := o.history(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	prompt := &PromptInput{
		Character: speaker,
		Party:     party,
		History:   history,
	}
	var trailing string
	if recorded.Set != nil {
		prompt.MultiRoll = recorded.Set.Rolls
		trailing = multiRollSummary(recorded.Set.Rolls)
	} else {
		prompt.DiceResult = outcome
		trailing = fmt.Sprintf("Dice roll result: %s (%s) = %d", outcome.Expression, outcome.Reason, outcome.Total)
	}

	turn, err := o.narrate(ctx, &turnInput{
		session:   session,
		character: speaker,
		prompt:    prompt,
		trailing:  llm.Message{Role: llm.RoleSystem, Content: trailing},
		model:     input.Model,
	})
	if err != nil {
		return nil, err
	}
	output.Turn = turn

	// the narrator has seen the set; a set opened by this turn already replaced it
	if recorded.Set != nil && turn.PendingRolls == nil {
		if _, err := o.dice.ClearRollSet(ctx, &dice.ClearRollSetInput{SessionID: session.ID}); err != nil {
			slog.WarnContext(ctx, "failed to close completed roll set",
				"session_id", session.ID,
				"error", err.Error())
		}
	}

	return output, nil
}

type turnInput struct {
	session   *entities.Session
	character *entities.Character
	prompt    *PromptInput
	trailing  llm.Message

	// player is appended once the narrator has answered and replaced by the stored copy
	player *entities.Message

	model string
}

// narrate runs one narrator turn: completion, extraction, roll grouping,
// persistence of the assistant message and the character mutation
func (o *Orchestrator) narrate(ctx context.Context, in *turnInput) (*chat.Turn, error) {
	if o.llmClient == nil {
		return nil, errors.FailedPrecondition("narrator is not configured")
	}

	model := in.model
	if model == "" {
		model = o.model
	}

	messages := make([]llm.Message, 0, len(in.prompt.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: BuildSystemPrompt(in.prompt)})
	for _, m := range in.prompt.History {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, in.trailing)

	completion, err := o.llmClient.Complete(ctx, &llm.CompleteInput{
		Model:       model,
		Messages:    messages,
		Temperature: narrationTemperature,
		MaxTokens:   narrationMaxTokens,
	})
	if err != nil {
		return nil, errors.Provider(err, "narrator request failed").
			WithMeta("session_id", in.session.ID)
	}

	if in.player != nil {
		in.player, err = o.append(ctx, in.player)
		if err != nil {
			return nil, err
		}
	}

	clean, mutation := narrative.ExtractMutation(completion.Content)
	fragments := narrative.Scan(clean)
	grouping := narrative.GroupRolls(fragments, o.classifier)

	turn := &chat.Turn{
		Narrative: clean,
		Fragments: fragments,
		Grouping:  grouping,
		Mutation:  mutation,
		Character: in.character,
	}

	if len(grouping.Related) > 0 {
		characterID := ""
		if in.character != nil {
			characterID = in.character.ID
		}
		opened, err := o.dice.OpenRollSet(ctx, &dice.OpenRollSetInput{
			SessionID:   in.session.ID,
			CharacterID: characterID,
			Requests:    grouping.Related,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to open roll set")
		}
		turn.PendingRolls = opened.Set
	}

	turn.Message, err = o.append(ctx, &entities.Message{
		SessionID: in.session.ID,
		Role:      entities.RoleAssistant,
		Content:   clean,
		Metadata: map[string]interface{}{
			MetaType:  entities.MessageTypeAIResponse,
			MetaModel: completion.Model,
		},
	})
	if err != nil {
		return nil, err
	}

	if mutation != nil && !mutation.IsEmpty() {
		if in.character == nil {
			slog.WarnContext(ctx, "Narrator sent character updates without a character",
				"session_id", in.session.ID)
		} else {
			applied, err := o.characters.ApplyMutation(ctx, &character.ApplyMutationInput{
				CharacterID:     in.character.ID,
				SessionID:       in.session.ID,
				Mutation:        mutation,
				ExpectedVersion: in.character.Version,
			})
			if err != nil {
				return nil, errors.Wrap(err, "failed to apply character updates").
					WithMeta("character_id", in.character.ID)
			}
			turn.Character = applied.Character
			if applied.Result != nil && applied.Result.Changed() {
				turn.Summary = applied.Result.Summary
			}
		}
	}

	slog.InfoContext(ctx, "Narrator turn complete",
		"session_id", in.session.ID,
		"fragments", len(fragments),
		"related_rolls", len(grouping.Related),
		"independent_rolls", len(grouping.Independent),
		"mutation", mutation != nil)

	return turn, nil
}

// claim records a request id and returns the stored key, empty when the
// request carries no id. A replay returns AlreadyExists.
func (o *Orchestrator) claim(ctx context.Context, sessionID, kind, requestID string) (string, error) {
	if requestID == "" {
		return "", nil
	}

	key := kind + ":" + requestID
	out, err := o.pendingRollRepo.ClaimRequest(ctx, pendingroll.ClaimRequestInput{
		SessionID: sessionID,
		RequestID: key,
		TTL:       o.requestTTL,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to record request id")
	}
	if !out.Claimed {
		slog.InfoContext(ctx, "Duplicate request ignored",
			"session_id", sessionID,
			"request_id", requestID)
		return "", errors.AlreadyExistsf("request %s was already processed", requestID).
			WithMeta("request_id", requestID)
	}
	return key, nil
}

// release forgets a claimed request id after a failed turn so the client can retry it
func (o *Orchestrator) release(ctx context.Context, sessionID, key string) {
	if key == "" {
		return
	}

	err := o.pendingRollRepo.ReleaseRequest(ctx, pendingroll.ReleaseRequestInput{
		SessionID: sessionID,
		RequestID: key,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to release request id",
			"session_id", sessionID,
			"request_id", key,
			"error", err.Error())
	}
}

func (o *Orchestrator) getSession(ctx context.Context, sessionID string) (*entities.Session, error) {
	out, err := o.sessionRepo.Get(ctx, sessionrepo.GetInput{ID: sessionID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get session")
	}
	return out.Session, nil
}

func (o *Orchestrator) history(ctx context.Context, sessionID string) ([]*entities.Message, error) {
	out, err := o.messageRepo.ListBySessionID(ctx, messagerepo.ListBySessionIDInput{
		SessionID: sessionID,
		Limit:     o.historyLimit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session history")
	}
	return out.Messages, nil
}

func (o *Orchestrator) append(ctx context.Context, msg *entities.Message) (*entities.Message, error) {
	msg.ID = o.messageIDs.Generate()
	out, err := o.messageRepo.Append(ctx, messagerepo.AppendInput{Message: msg})
	if err != nil {
		return nil, errors.Wrap(err, "failed to append message").
			WithMeta("session_id", msg.SessionID)
	}
	return out.Message, nil
}

// logRoll appends the dice_roll system message. The roll is already recorded,
// so a failed append is only logged.
func (o *Orchestrator) logRoll(ctx context.Context, sessionID string, outcome *dice.Outcome) {
	meta := map[string]interface{}{
		MetaType:     entities.MessageTypeDiceRoll,
		MetaDiceType: outcome.Expression,
		MetaReason:   outcome.Reason,
		MetaResult:   outcome.Total,
	}
	if outcome.Success != nil {
		meta[MetaSuccess] = *outcome.Success
	}
	if outcome.Tier != "" {
		meta[MetaTier] = outcome.Tier
	}

	_, err := o.append(ctx, &entities.Message{
		SessionID: sessionID,
		Role:      entities.RoleSystem,
		Content:   fmt.Sprintf("🎲 %s (%s): %d", outcome.Expression, outcome.Reason, outcome.Total),
		Metadata:  meta,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to log dice roll",
			"session_id", sessionID,
			"error", err.Error())
	}
}

// loadParty returns the speaking character and the rest of the party.
// characterID overrides the session's pinned character.
func (o *Orchestrator) loadParty(ctx context.Context, session *entities.Session, characterID string) (*entities.Character, []*entities.Character, error) {
	if characterID == "" {
		characterID = session.CharacterID
	}

	var speaker *entities.Character
	if characterID != "" {
		out, err := o.characters.GetCharacter(ctx, &character.GetCharacterInput{CharacterID: characterID})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to load speaking character")
		}
		if out.Character.CampaignID != session.CampaignID {
			return nil, nil, errors.InvalidArgumentf("character %s is not part of this campaign", characterID)
		}
		speaker = out.Character
	}

	var members []*entities.Character
	if len(session.PartyCharacterIDs) > 0 {
		for _, id := range session.PartyCharacterIDs {
			if id == characterID {
				continue
			}
			out, err := o.characters.GetCharacter(ctx, &character.GetCharacterInput{CharacterID: id})
			if err != nil {
				if errors.IsNotFound(err) {
					slog.DebugContext(ctx, "Party member no longer exists",
						"session_id", session.ID,
						"character_id", id)
					continue
				}
				return nil, nil, errors.Wrap(err, "failed to load party")
			}
			members = append(members, out.Character)
		}
		return speaker, members, nil
	}

	out, err := o.characters.ListCharacters(ctx, &character.ListCharactersInput{CampaignID: session.CampaignID})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load party")
	}
	for _, c := range out.Characters {
		if c.ID != characterID {
			members = append(members, c)
		}
	}

	return speaker, members, nil
}

func multiRollSummary(rolls []pendingroll.PendingRoll) string {
	parts := make([]string, 0, len(rolls))
	for _, r := range rolls {
		if r.Result == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s) = %d", r.Expression, r.Reason, *r.Result))
	}
	return "Multi-roll results: " + strings.Join(parts, ", ")
}
