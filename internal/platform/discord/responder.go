package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/soyeahso/tickethelper/internal/domain"
)

// Modal field length limits, enforced client side by Discord and again
// by the queue on submit.
const (
	issueMinLen = 20
	issueMaxLen = 300
	triedMinLen = 30
	triedMaxLen = 500
)

// interactionResponder answers a single interaction. Discord allows one
// initial response per interaction token, so each value is used for at
// most one of the three reply shapes.
type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

var _ domain.Responder = (*interactionResponder)(nil)

func (r *interactionResponder) Ephemeral(ctx context.Context, content string) error {
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sending ephemeral response: %w", err)
	}
	return nil
}

func (r *interactionResponder) UpdateMessage(ctx context.Context, msg domain.Message) error {
	data := &discordgo.InteractionResponseData{
		Content:    msg.Content,
		Components: toComponents(msg.Buttons),
	}
	if msg.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{toEmbed(msg.Embed)}
	}
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("updating interaction message: %w", err)
	}
	return nil
}

func (r *interactionResponder) ShowHelpForm(ctx context.Context, ticketID string) error {
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "reqform:" + ticketID,
			Title:    "Request Staff Assistance",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "issue",
						Label:       "What do you need help with?",
						Style:       discordgo.TextInputShort,
						Placeholder: "Briefly describe the problem you are stuck on",
						Required:    true,
						MinLength:   issueMinLen,
						MaxLength:   issueMaxLen,
					},
				}},
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.TextInput{
						CustomID:    "tried",
						Label:       "What have you tried so far?",
						Style:       discordgo.TextInputParagraph,
						Placeholder: "Describe what you have already attempted and what happened",
						Required:    true,
						MinLength:   triedMinLen,
						MaxLength:   triedMaxLen,
					},
				}},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("showing help request form: %w", err)
	}
	return nil
}
