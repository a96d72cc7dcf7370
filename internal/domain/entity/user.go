package entity

// UserState is the dialogue state of a bot user.
type UserState string

const (
	StateLocked        UserState = "locked"         // waiting for the salon code
	StateMainMenu      UserState = "main_menu"      // idle, authorized
	StateAwaitingPhoto UserState = "awaiting_photo" // waiting for the hand photo
	StateProcessing    UserState = "processing"     // analysis in flight
	StateShowingResult UserState = "showing_result" // result delivered, until reset
)

// User is a salon employee talking to the bot.
type User struct {
	ID         int64     // Telegram User ID
	ChatID     int64     // Telegram Chat ID
	State      UserState // current dialogue state
	Authorized bool      // salon code accepted
	ClientName string    // client of the current consultation
}

// NewUser creates a locked user.
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateLocked,
	}
}

// SetState updates the dialogue state.
func (u *User) SetState(state UserState) {
	u.State = state
}

// Authorize unlocks the user and moves them to the main menu.
func (u *User) Authorize() {
	u.Authorized = true
	u.State = StateMainMenu
}

// Revoke locks the user again and forgets the current client.
func (u *User) Revoke() {
	u.Authorized = false
	u.ClientName = ""
	u.State = StateLocked
}

// DisplayClientName returns the client name or fallback when none is set.
func (u *User) DisplayClientName(fallback string) string {
	if u.ClientName == "" {
		return fallback
	}
	return u.ClientName
}
