package sender

// Target is the recipient addressing mode. Its value doubles as the JSON
// key of the recipient field in an outgoing message.
type Target string

const (
	TargetToken     Target = "token"
	TargetTopic     Target = "topic"
	TargetCondition Target = "condition"
)

// Recipient is one group's destination.
type Recipient struct {
	Target  Target
	Address string
}

// recipientOf recovers the recipient from a rendered message, used when the
// session was fed raw messages instead of builder groups.
func recipientOf(message map[string]any) Recipient {
	for _, target := range []Target{TargetToken, TargetTopic, TargetCondition} {
		if address, ok := message[string(target)].(string); ok {
			return Recipient{Target: target, Address: address}
		}
	}
	return Recipient{}
}
