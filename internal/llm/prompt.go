package llm

const systemPrompt = "You are a concise, friendly texting assistant. " +
	"Write a single draft reply with no preamble or labels."

// draftMessages builds the chat completion payload for one transcript.
func draftMessages(transcript string) []chatMessage {
	user := "Here is the chat transcript. Draft one concise, friendly reply. " +
		"Do not include quotes or extra commentary.\n\n" + transcript
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	}
}
