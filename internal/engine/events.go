// Package engine routes inbound chat events through the per-user
// conversation state machine and produces rendering instructions for the
// transport adapter.
package engine

// CommandName identifies a slash command.
type CommandName string

// The supported commands.
const (
	CmdHelp      CommandName = "help"
	CmdStart     CommandName = "start"
	CmdCancel    CommandName = "cancel"
	CmdInventory CommandName = "inventory"
	CmdAdd       CommandName = "add"
	CmdRemove    CommandName = "remove"
	CmdCart      CommandName = "cart"
	CmdOrders    CommandName = "orders"
	CmdShop      CommandName = "shop"
)

// commandTable drives /help output. Order matters for display.
var commandTable = []struct {
	Name        CommandName
	Description string
}{
	{CmdHelp, "Show help text."},
	{CmdStart, "Create a new account in the store."},
	{CmdCancel, "Cancel the current dialogue."},
	{CmdInventory, "View the store's inventory."},
	{CmdAdd, "Add a new product."},
	{CmdRemove, "Remove a product."},
	{CmdCart, "View your cart."},
	{CmdOrders, "View your orders."},
	{CmdShop, "View the shop web app."},
}

// LookupCommand maps a command word (without the leading slash) to its
// CommandName, reporting whether it is known.
func LookupCommand(word string) (CommandName, bool) {
	for _, c := range commandTable {
		if string(c.Name) == word {
			return c.Name, true
		}
	}
	return "", false
}

// Profile carries the sender identity fields captured at signup.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
}

// Event is an inbound unit of work, normalized by the transport adapter.
// The engine routes each event to exactly one handler.
type Event interface {
	// UserID identifies the sender; session state and locking key on it.
	UserID() int64
}

// Command is a slash command event.
type Command struct {
	Name CommandName
	User int64
	Chat int64
	From Profile
}

// Text is a free-text message, routed by the sender's session state rather
// than by content.
type Text struct {
	User int64
	Chat int64
	Body string
}

// Callback is a button press carrying a decoded action. Unrecognized tokens
// never become Callback events; the transport drops them.
type Callback struct {
	User   int64
	Chat   int64
	Action Action
}

func (c Command) UserID() int64  { return c.User }
func (t Text) UserID() int64     { return t.User }
func (c Callback) UserID() int64 { return c.User }
