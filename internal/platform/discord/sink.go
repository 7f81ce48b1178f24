package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/soyeahso/tickethelper/internal/domain"
)

// Permissions granted to a staff member joining a ticket channel.
const staffChannelAllow = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionEmbedLinks |
	discordgo.PermissionAttachFiles |
	discordgo.PermissionAddReactions

// SendMessage posts a message to a channel and returns its reference.
func (a *Adapter) SendMessage(ctx context.Context, channelID string, msg domain.Message) (domain.MessageRef, error) {
	sent, err := a.session.ChannelMessageSendComplex(channelID, toMessageSend(msg), discordgo.WithContext(ctx))
	if err != nil {
		return domain.MessageRef{}, fmt.Errorf("sending message to %s: %w", channelID, err)
	}
	return domain.MessageRef{ChannelID: sent.ChannelID, MessageID: sent.ID}, nil
}

// EditMessage replaces the content, embed and controls of an existing
// message in place.
func (a *Adapter) EditMessage(ctx context.Context, ref domain.MessageRef, msg domain.Message) error {
	content := msg.Content
	embeds := []*discordgo.MessageEmbed{}
	if msg.Embed != nil {
		embeds = append(embeds, toEmbed(msg.Embed))
	}
	components := toComponents(msg.Buttons)

	_, err := a.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    ref.ChannelID,
		ID:         ref.MessageID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("editing message %s in %s: %w", ref.MessageID, ref.ChannelID, err)
	}
	return nil
}

// PinMessage pins a previously sent message in its channel.
func (a *Adapter) PinMessage(ctx context.Context, ref domain.MessageRef) error {
	if err := a.session.ChannelMessagePin(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("pinning message %s: %w", ref.MessageID, err)
	}
	return nil
}

// SendDirect delivers a message to a user's DM channel.
func (a *Adapter) SendDirect(ctx context.Context, userID string, msg domain.Message) error {
	dm, err := a.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("opening DM channel for %s: %w", userID, err)
	}
	if _, err := a.session.ChannelMessageSendComplex(dm.ID, toMessageSend(msg), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("sending DM to %s: %w", userID, err)
	}
	return nil
}

// GrantChannelAccess gives a user read and write access to a channel
// via a member permission overwrite.
func (a *Adapter) GrantChannelAccess(ctx context.Context, channelID, userID string) error {
	err := a.session.ChannelPermissionSet(channelID, userID,
		discordgo.PermissionOverwriteTypeMember, staffChannelAllow, 0,
		discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("granting %s access to %s: %w", userID, channelID, err)
	}
	return nil
}

// ChannelMembers lists the members with an explicit permission overwrite
// on the channel. Ticket channels grant access per member, so the
// overwrite list is the member list. Members that cannot be resolved
// are skipped.
func (a *Adapter) ChannelMembers(ctx context.Context, channelID string) ([]domain.Member, error) {
	ch, err := a.session.State.Channel(channelID)
	if err != nil {
		ch, err = a.session.Channel(channelID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("resolving channel %s: %w", channelID, err)
		}
	}

	return a.overwriteMembers(ctx, ch.PermissionOverwrites), nil
}

// overwriteMembers resolves member-type permission overwrites into
// member identities, in overwrite order. Unresolvable members are
// skipped.
func (a *Adapter) overwriteMembers(ctx context.Context, overwrites []*discordgo.PermissionOverwrite) []domain.Member {
	var members []domain.Member
	for _, overwrite := range overwrites {
		if overwrite.Type != discordgo.PermissionOverwriteTypeMember {
			continue
		}
		member, err := a.session.GuildMember(a.guildID, overwrite.ID, discordgo.WithContext(ctx))
		if err != nil || member.User == nil {
			a.log.Debug().Str("user", overwrite.ID).Msg("skipping unresolvable channel member")
			continue
		}
		name := member.Nick
		if name == "" {
			name = member.User.String()
		}
		members = append(members, domain.Member{
			ID:          member.User.ID,
			DisplayName: name,
			IsBot:       member.User.Bot,
		})
	}
	return members
}
