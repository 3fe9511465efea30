package command

import (
	"context"
	"fmt"
	"strings"
)

// Help replies with a summary of every registered command.
type Help struct {
	registry *Registry
}

var _ Command = (*Help)(nil)

func NewHelp(r *Registry) *Help {
	return &Help{registry: r}
}

func (c *Help) Descriptor() Descriptor {
	return Descriptor{
		Name:        "emote-help",
		Usage:       "/emote-help",
		Description: "Show how to use the emote bot",
		Aliases:     []string{"help"},
	}
}

func (c *Help) Handle(ctx context.Context, inv Invocation) error {
	var b strings.Builder
	b.WriteString("*Emote bot commands*\n")
	for _, d := range c.registry.Descriptors() {
		fmt.Fprintf(&b, "• `%s`: %s\n", d.Usage, d.Description)
	}
	b.WriteString("In channels, `!<emote> [@user]` sends an emote and `!emotes` lists them.")

	if err := inv.Responder.Reply(ctx, b.String()); err != nil {
		return fmt.Errorf("command.Help.Handle: %w", err)
	}
	return nil
}
