package domain

// ChannelMessage is one inbound message read back from the channel.
// TimestampKey is the transport's ordering key: a millisecond Unix
// timestamp rendered as a decimal string, so keys within one channel
// compare correctly as strings.
type ChannelMessage struct {
	Handle       string // transport message handle, used by diagnostic flows
	Text         string
	SenderName   string
	TimestampKey string
}

// Cursor is the monitor's watermark over the message ordering key.
// The zero value means no message has been processed yet.
type Cursor string

// Allows reports whether a message with the given key is newer than the
// watermark and may be offered to the matcher.
func (c Cursor) Allows(key string) bool {
	return c == "" || key > string(c)
}

// Advance returns the cursor moved forward to key. The cursor never moves
// backwards.
func (c Cursor) Advance(key string) Cursor {
	if c.Allows(key) {
		return Cursor(key)
	}
	return c
}
