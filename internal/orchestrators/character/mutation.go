package character

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/dungeon-master/internal/audit"
	"github.com/KirkDiggler/dungeon-master/internal/entities"
	"github.com/KirkDiggler/dungeon-master/internal/errors"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	"github.com/KirkDiggler/dungeon-master/internal/reducer"
	characterrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/character"
	messagerepo "github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	"github.com/KirkDiggler/dungeon-master/internal/services/character"
)

// ApplyMutation reduces a mutation against the stored character and writes
// the result at the version it was read. A concurrent write returns Aborted
// and leaves the stored character untouched. When a session is given the
// change summary is appended to its log.
func (o *Orchestrator) ApplyMutation(ctx context.Context, input *character.ApplyMutationInput) (*character.ApplyMutationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	current, err := o.load(ctx, input.CharacterID, input.ExpectedVersion)
	if err != nil {
		return nil, err
	}

	o.checkRemovals(ctx, current, input.Mutation)

	result := reducer.Reduce(current, input.Mutation)
	if !result.Changed() {
		slog.DebugContext(ctx, "Mutation changed nothing",
			"character_id", input.CharacterID)
		return &character.ApplyMutationOutput{Character: current, Result: result}, nil
	}

	out, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: result.Next})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save character").
			WithMeta("character_id", input.CharacterID)
	}
	result.Next = out.Character

	slog.InfoContext(ctx, "Character mutation applied",
		"character_id", out.Character.ID,
		"session_id", input.SessionID,
		"version", out.Character.Version,
		"summary", result.Summary)

	output := &character.ApplyMutationOutput{
		Character: out.Character,
		Result:    result,
	}

	if input.SessionID != "" {
		msg := &entities.Message{
			ID:        o.messageIDs.Generate(),
			SessionID: input.SessionID,
			Role:      entities.RoleSystem,
			Content:   result.Summary,
			Metadata: map[string]interface{}{
				MetaType:      entities.MessageTypeCharacterUpdate,
				MetaCharacter: out.Character.ID,
				MetaUpdates:   result.Applied,
				MetaChanges:   result.Changes,
			},
		}
		appended, err := o.messageRepo.Append(ctx, messagerepo.AppendInput{Message: msg})
		if err != nil {
			// the character is saved; a missing log line must not undo it
			slog.WarnContext(ctx, "failed to log character update",
				"character_id", out.Character.ID,
				"session_id", input.SessionID,
				"error", err.Error())
		} else {
			output.Message = appended.Message
		}
	}

	audit.Publish(ctx, o.bus, audit.EventCharacterUpdated, out.Character, map[string]interface{}{
		audit.KeySessionID: input.SessionID,
		audit.KeySummary:   result.Summary,
		audit.KeyVersion:   out.Character.Version,
	})

	return output, nil
}

// checkRemovals logs removals of items the character does not carry. The
// reducer skips them, so the narrator's story and the sheet may disagree.
func (o *Orchestrator) checkRemovals(ctx context.Context, current *entities.Character, m *narrative.Mutation) {
	if m == nil || len(m.InventoryRemove) == 0 {
		return
	}

	inventory := current.Inventory
	if m.HasInventory {
		inventory = m.Inventory
	}
	for _, item := range m.InventoryRemove {
		if !reducer.HasItems(inventory, []string{item})[item] {
			slog.WarnContext(ctx, "Narrator removed an item the character does not carry",
				"character_id", current.ID,
				"item", item)
		}
	}
}
