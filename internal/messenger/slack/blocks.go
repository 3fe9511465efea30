package slack

import (
	"strings"

	"github.com/google/uuid"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/emotebot/internal/selection"
)

// TargetModalCallbackID identifies view_submission payloads of the target
// input dialog.
const TargetModalCallbackID = "target_input_modal"

// Block names, combined with the session id into block ids.
const (
	blockCaption       = "caption"
	blockItems         = "items"
	blockTarget        = "target"
	blockTargetActions = "target_actions"
	blockSubmit        = "submit"
	blockTargetInput   = "target_input"
)

// Slack Block Kit limits.
const (
	maxSelectOptions = 100
	maxOptionText    = 75
	maxTargetInput   = 100
)

// BlockID scopes a block to a session so interactions can be routed back to
// it.
func BlockID(sessionID uuid.UUID, name string) string {
	return sessionID.String() + "/" + name
}

// ParseBlockID splits a block id built by BlockID.
func ParseBlockID(blockID string) (uuid.UUID, string, bool) {
	raw, name, ok := strings.Cut(blockID, "/")
	if !ok {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", false
	}
	return id, name, true
}

// BuildViewBlocks renders a selection view as Block Kit blocks. Disabled
// buttons are left out because Block Kit has no disabled state.
func BuildViewBlocks(sessionID uuid.UUID, v selection.View) []slacklib.Block {
	caption := slacklib.NewSectionBlock(
		slacklib.NewTextBlockObject(slacklib.MarkdownType, v.Caption, false, false),
		nil,
		nil,
		slacklib.SectionBlockOptionBlockID(BlockID(sessionID, blockCaption)),
	)
	if !v.Interactive {
		return []slacklib.Block{caption}
	}

	items := []slacklib.BlockElement{buildSelect(v.Items)}
	items = appendButton(items, v.Prev)
	items = appendButton(items, v.Next)

	var targetActions []slacklib.BlockElement
	if len(v.Targets.Options) > 0 {
		targetActions = append(targetActions, buildSelect(v.Targets))
	}
	targetActions = appendButton(targetActions, v.TargetInput)

	var submit []slacklib.BlockElement
	submit = appendButton(submit, v.Submit)
	if len(submit) > 0 {
		if btn, ok := submit[0].(*slacklib.ButtonBlockElement); ok {
			btn.WithStyle(slacklib.StylePrimary)
		}
	}

	blocks := []slacklib.Block{
		caption,
		slacklib.NewActionBlock(BlockID(sessionID, blockItems), items...),
		slacklib.NewContextBlock(BlockID(sessionID, blockTarget),
			slacklib.NewTextBlockObject(slacklib.MarkdownType, v.TargetLabel, false, false)),
	}
	if len(targetActions) > 0 {
		blocks = append(blocks, slacklib.NewActionBlock(BlockID(sessionID, blockTargetActions), targetActions...))
	}
	if len(submit) > 0 {
		blocks = append(blocks, slacklib.NewActionBlock(BlockID(sessionID, blockSubmit), submit...))
	}

	return blocks
}

func buildSelect(m selection.Menu) *slacklib.SelectBlockElement {
	options := make([]*slacklib.OptionBlockObject, 0, min(len(m.Options), maxSelectOptions))
	var initial *slacklib.OptionBlockObject

	for _, o := range m.Options[:min(len(m.Options), maxSelectOptions)] {
		opt := slacklib.NewOptionBlockObject(o.Value, plainText(truncate(o.Label, maxOptionText)), nil)
		if o.Selected {
			initial = opt
		}
		options = append(options, opt)
	}

	sel := slacklib.NewOptionsSelectBlockElement(slacklib.OptTypeStatic, plainText(m.Placeholder), string(m.ID), options...)
	sel.InitialOption = initial
	return sel
}

func appendButton(elems []slacklib.BlockElement, b selection.Button) []slacklib.BlockElement {
	if b.Disabled {
		return elems
	}
	return append(elems, slacklib.NewButtonBlockElement(string(b.ID), string(b.ID), plainText(b.Label)))
}

// BuildTargetModal renders the free-text target dialog. The session id
// travels in the private metadata.
func BuildTargetModal(sessionID uuid.UUID, d selection.Dialog) slacklib.ModalViewRequest {
	input := slacklib.NewPlainTextInputBlockElement(plainText(d.Placeholder), string(d.FieldID))
	input.MaxLength = maxTargetInput

	return slacklib.ModalViewRequest{
		Type:            slacklib.VTModal,
		Title:           plainText(d.Title),
		Close:           plainText("Cancel"),
		Submit:          plainText("Set target"),
		CallbackID:      TargetModalCallbackID,
		PrivateMetadata: sessionID.String(),
		Blocks: slacklib.Blocks{BlockSet: []slacklib.Block{
			slacklib.NewInputBlock(BlockID(sessionID, blockTargetInput), plainText(d.Label), nil, input),
		}},
	}
}

// TargetInputValue extracts the submitted text from a target modal.
func TargetInputValue(sessionID uuid.UUID, state *slacklib.ViewState) string {
	if state == nil {
		return ""
	}
	return state.Values[BlockID(sessionID, blockTargetInput)][string(selection.ComponentTargetInputField)].Value
}

func plainText(s string) *slacklib.TextBlockObject {
	return slacklib.NewTextBlockObject(slacklib.PlainTextType, s, false, false)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
