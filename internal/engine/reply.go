package engine

// Button is one labeled inline action.
type Button struct {
	Label string
	Token string
}

// Reply is an abstract rendering instruction for the transport adapter: a
// text body, optional button rows, and an optional request to delete the
// previous prompt so multi-step flows keep the chat clean.
type Reply struct {
	Text         string
	Buttons      [][]Button
	DeletePrompt bool
}

// reply builds a plain text reply.
func reply(text string) Reply {
	return Reply{Text: text}
}

// button builds an inline button for an action.
func button(label string, a Action) Button {
	return Button{Label: label, Token: EncodeCallback(a)}
}
