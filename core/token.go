package core

import (
	"strings"

	"pkt.systems/rolepost/schema"
)

// ChoiceTokenPrefix marks select menu custom ids answered by Choose.
const ChoiceTokenPrefix = "rolepost-choose-"

// EncodeChoiceToken builds the correlation token carried by a choice prompt.
func EncodeChoiceToken(channelID schema.ChannelID, userID schema.UserID) (string, error) {
	if err := schema.ValidateChannelID(channelID); err != nil {
		return "", err
	}
	if err := schema.ValidateUserID(userID); err != nil {
		return "", err
	}
	return ChoiceTokenPrefix + string(channelID) + "-" + string(userID), nil
}

// DecodeChoiceToken extracts the channel and requester from a correlation token.
func DecodeChoiceToken(token string) (schema.ChannelID, schema.UserID, error) {
	rest, ok := strings.CutPrefix(token, ChoiceTokenPrefix)
	if !ok {
		return "", "", schema.ErrInvalidToken
	}
	channel, user, ok := strings.Cut(rest, "-")
	if !ok {
		return "", "", schema.ErrInvalidToken
	}
	channelID, userID := schema.ChannelID(channel), schema.UserID(user)
	if schema.ValidateChannelID(channelID) != nil || schema.ValidateUserID(userID) != nil {
		return "", "", schema.ErrInvalidToken
	}
	return channelID, userID, nil
}

// IsChoiceToken reports whether a custom id belongs to a choice prompt.
func IsChoiceToken(customID string) bool {
	return strings.HasPrefix(customID, ChoiceTokenPrefix)
}
