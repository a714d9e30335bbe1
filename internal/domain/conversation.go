package domain

// Message is one entry of a transcript. Values are never mutated after creation.
type Message struct {
	Role    Role
	Content string
}

// Transcript is the ordered history replayed verbatim to the model every turn.
type Transcript []Message

// Last returns the final message and false when the transcript is empty.
func (t Transcript) Last() (Message, bool) {
	if len(t) == 0 {
		return Message{}, false
	}
	return t[len(t)-1], true
}

// DisplayLabel is the role tag shown in the display log.
type DisplayLabel string

const (
	LabelUser DisplayLabel = "user"
	LabelBot  DisplayLabel = "bot"
)

// DisplayEntry is one line of the presentation log of a session.
type DisplayEntry struct {
	Label   DisplayLabel
	Content string
}

// ActivityItem is a past user query, numbered from the oldest (1).
type ActivityItem struct {
	Number int
	Query  string
}
