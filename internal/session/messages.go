package session

const (
	messageConnecting     = "Connecting..."
	messageConnected      = "Connected. Start speaking!"
	messageStopped        = "Stopped. Summary will appear below."
	messageDisconnected   = "Disconnected."
	messageNoSpeech       = "No speech was detected to summarize."
	messagePendingLive    = "Generating summary from live session..."
	messagePendingFile    = "Summarizing file..."
	messagePendingText    = "Generating summary..."
	messageMicDenied      = "Microphone permission denied"
	messageMicFailed      = "Failed to access microphone"
	messageNoDevice       = "No capture device is available"
	messageEncoderFailed  = "Failed to prepare audio encoder"
	messageStreamFailed   = "WebSocket error occurred"
	messageSummaryHeading = "**Summary**"
	messageFileHeading    = "**Summary of %s**"
)
