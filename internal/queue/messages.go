package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/soyeahso/tickethelper/internal/domain"
)

// Embed colors per state and category.
const (
	colorOnline   = 0x3498db
	colorInPerson = 0x9b59b6
	colorClaimed  = 0x2ecc71
	colorInactive = 0x95a5a6
)

// embedFieldLimit is the platform's per-field value cap.
const embedFieldLimit = 1024

// ClaimButtonID and CloseButtonID build the control identities the
// platform adapter routes back as ClaimAttempted / CloseAttempted.
func ClaimButtonID(ticketID string) string { return "claim:" + ticketID }

// CloseButtonID is the close-request control identity for a ticket.
func CloseButtonID(ticketID string) string { return "qclose:" + ticketID }

func (q *Queue) submissionMessage(sub Submission) domain.Message {
	color := colorInPerson
	if sub.Category == domain.CategoryOnline {
		color = colorOnline
	}

	embed := domain.Embed{
		Title: fmt.Sprintf("🆘 New Help Request — %s", sub.Category),
		Color: color,
		Fields: []domain.EmbedField{
			{Name: "👤 Student", Value: fmt.Sprintf("<@%s>", sub.Requester.ID), Inline: true},
			{Name: "🎫 Ticket", Value: jumpLink(q.cfg.GuildID, sub.TicketID), Inline: true},
			{Name: "📝 Issue Summary", Value: clamp(sub.Summary)},
			{Name: "🔍 What They Tried", Value: clamp(sub.Attempts)},
		},
		Footer:    "Ticket ID: " + sub.TicketID,
		Timestamp: true,
	}

	return domain.Message{
		Content: roleMentions(q.cfg.StaffRoles),
		Embed:   &embed,
		Buttons: controls(sub.TicketID, false, false, domain.ButtonSecondary),
	}
}

// claimedMessage recolors the post, stamps the claim footer, disables
// the claim control and switches the close control to danger styling so
// the claimer can still dismiss the entry.
func (q *Queue) claimedMessage(entry *Entry, actor domain.Actor) domain.Message {
	embed := entry.embed
	embed.Color = colorClaimed
	embed.Footer = fmt.Sprintf("✅ Claimed by %s at %s", actor.DisplayName, clockStamp())

	return domain.Message{
		Embed:   &embed,
		Buttons: controls(entry.TicketID, true, false, domain.ButtonDanger),
	}
}

// inactiveMessage greys the post and disables every control.
func (q *Queue) inactiveMessage(entry *Entry, footer string) domain.Message {
	embed := entry.embed
	embed.Color = colorInactive
	embed.Footer = footer

	return domain.Message{
		Embed:   &embed,
		Buttons: controls(entry.TicketID, true, true, domain.ButtonSecondary),
	}
}

// controls builds the claim/close button row.
func controls(ticketID string, claimDisabled, closeDisabled bool, closeStyle domain.ButtonStyle) []domain.Button {
	return []domain.Button{
		{
			ID:       ClaimButtonID(ticketID),
			Label:    "Claim & Join",
			Style:    domain.ButtonSuccess,
			Emoji:    "✋",
			Disabled: claimDisabled,
		},
		{
			ID:       CloseButtonID(ticketID),
			Label:    "Close Request",
			Style:    closeStyle,
			Emoji:    "🗑️",
			Disabled: closeDisabled,
		},
	}
}

func roleMentions(roleIDs []string) string {
	mentions := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		if id != "" {
			mentions = append(mentions, "<@&"+id+">")
		}
	}
	return strings.Join(mentions, " ")
}

func jumpLink(guildID, channelID string) string {
	return fmt.Sprintf("[Jump to channel](https://discord.com/channels/%s/%s)", guildID, channelID)
}

func clamp(s string) string {
	if len(s) > embedFieldLimit {
		return s[:embedFieldLimit]
	}
	return s
}

func clockStamp() string {
	return time.Now().Format("3:04:05 PM")
}
