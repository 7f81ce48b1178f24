package discord

import (
	"bytes"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/soyeahso/tickethelper/internal/domain"
)

func toMessageSend(msg domain.Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content:    msg.Content,
		Components: toComponents(msg.Buttons),
	}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{toEmbed(msg.Embed)}
	}
	for _, f := range msg.Files {
		send.Files = append(send.Files, &discordgo.File{
			Name:        f.Name,
			ContentType: "text/html",
			Reader:      bytes.NewReader(f.Data),
		})
	}
	return send
}

func toEmbed(embed *domain.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	for _, f := range embed.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	if embed.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}
	if embed.Timestamp {
		out.Timestamp = time.Now().Format(time.RFC3339)
	}
	return out
}

func toComponents(buttons []domain.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return nil
	}
	row := discordgo.ActionsRow{}
	for _, b := range buttons {
		button := discordgo.Button{
			Label:    b.Label,
			Style:    toButtonStyle(b.Style),
			Disabled: b.Disabled,
		}
		if b.Style == domain.ButtonLink {
			button.URL = b.URL
		} else {
			button.CustomID = b.ID
		}
		if b.Emoji != "" {
			button.Emoji = &discordgo.ComponentEmoji{Name: b.Emoji}
		}
		row.Components = append(row.Components, button)
	}
	return []discordgo.MessageComponent{row}
}

func toButtonStyle(style domain.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case domain.ButtonSecondary:
		return discordgo.SecondaryButton
	case domain.ButtonSuccess:
		return discordgo.SuccessButton
	case domain.ButtonDanger:
		return discordgo.DangerButton
	case domain.ButtonLink:
		return discordgo.LinkButton
	default:
		return discordgo.PrimaryButton
	}
}

func toAttachmentRefs(attachments []*discordgo.MessageAttachment) []domain.AttachmentRef {
	if len(attachments) == 0 {
		return nil
	}
	refs := make([]domain.AttachmentRef, 0, len(attachments))
	for _, att := range attachments {
		refs = append(refs, domain.AttachmentRef{Name: att.Filename, URL: att.URL})
	}
	return refs
}
