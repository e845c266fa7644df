package model

// Invocation is a transport-neutral description of a triggered command.
// The gateway adapter builds one from the Discord interaction; the
// validation layer consumes it without depending on any transport type.
type Invocation struct {
	GuildID        string
	UserID         string
	ChannelID      string
	CommandName    string
	SubcommandName string
	Options        map[string]any
}
