package selection

import "fmt"

// DefaultPrompt is the caption shown above the selection controls.
const DefaultPrompt = "Select an emote and optionally a target"

// MenuOption is one entry of a select menu.
type MenuOption struct {
	Label    string
	Value    string
	Selected bool
}

// Menu is a single-choice select control.
type Menu struct {
	ID          ComponentID
	Placeholder string
	Options     []MenuOption
}

// Button is a push button control.
type Button struct {
	ID       ComponentID
	Label    string
	Disabled bool
}

// View is a platform independent description of the prompt. Transports turn
// it into their native message format. A View with Interactive unset carries
// only its Caption.
type View struct {
	Caption     string
	Interactive bool

	Items Menu
	Prev  Button
	Next  Button

	Targets     Menu
	TargetLabel string
	TargetInput Button

	Submit Button
}

// Dialog describes the secondary free-text input surface.
type Dialog struct {
	Title       string
	Label       string
	Placeholder string
	FieldID     ComponentID
}

// TargetDialog is the dialog opened by the target_input_open button.
func TargetDialog() Dialog {
	return Dialog{
		Title:       "Custom target input",
		Label:       "Target name",
		Placeholder: "Emote target",
		FieldID:     ComponentTargetInputField,
	}
}

// Caption formats prompt with the current page position.
func Caption(prompt string, offset, catalogLen int) string {
	return fmt.Sprintf("%s (%d/%d)", prompt, PageNumber(offset), PageCount(catalogLen))
}

// Render builds the full interactive view for s. It depends only on its
// arguments, so every event handler can re-render from scratch.
func Render(prompt string, s *Session, catalog []string, candidates CandidateList) View {
	page, hasPrev, hasNext := Page(catalog, s.PageOffset)

	items := make([]MenuOption, 0, len(page))
	for _, id := range page {
		items = append(items, MenuOption{Label: id, Value: id, Selected: id == s.SelectedItem})
	}

	target := s.Target()
	member, _ := target.(Member)
	targetPlaceholder := "No user selected"
	if text, ok := target.(FreeText); ok {
		targetPlaceholder = string(text)
	}

	targets := make([]MenuOption, 0, len(candidates))
	for _, c := range candidates {
		targets = append(targets, MenuOption{Label: c.DisplayName, Value: c.ID, Selected: c.ID == member.ID})
	}

	return View{
		Caption:     Caption(prompt, s.PageOffset, len(catalog)),
		Interactive: true,
		Items: Menu{
			ID:          ComponentItemSelect,
			Placeholder: "No emote selected",
			Options:     items,
		},
		Prev:    Button{ID: ComponentItemPrev, Label: "Previous emote page", Disabled: !hasPrev},
		Next:    Button{ID: ComponentItemNext, Label: "Next emote page", Disabled: !hasNext},
		Targets: Menu{ID: ComponentTargetSelect, Placeholder: targetPlaceholder, Options: targets},

		TargetLabel: "Target: " + DisplayText(target),
		TargetInput: Button{ID: ComponentTargetInputOpen, Label: "Input custom target"},
		Submit:      Button{ID: ComponentSubmit, Label: "Send"},
	}
}

// RenderConfirmation builds the final, non-interactive view of a submitted
// session.
func RenderConfirmation(r Result) View {
	caption := "Emote sent! (" + r.Item
	if r.Target != nil {
		caption += " " + r.Target.Text()
	}
	return View{Caption: caption + ")"}
}
