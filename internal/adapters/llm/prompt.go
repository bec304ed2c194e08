package llm

import (
	"fmt"
	"strings"
)

// NoCandidateReply is returned when the model answers without any text.
const NoCandidateReply = "Sorry, I couldn't generate a response."

const assistantIntro = `You are a helpful weather assistant chatbot. The user asked: "%s"`

const weatherInstructions = `Weather data from API: %s

Please analyze this weather data carefully. If the data is only for one location (like London) but the user asked about a different location, please acknowledge this limitation and provide the available data while explaining that you only have information for the location mentioned in the data. Be honest about what information you have available.

Provide a concise, helpful response about the weather. Summarize the weather data in a user-friendly way.`

const noWeatherInstructions = `Please provide a helpful response. If this is a weather query, ask the user to specify a location for weather information.`

const closingInstructions = `Keep the response conversational and helpful.`

// Sampling settings shared by every Gemini backend.
const (
	temperature     = 0.7
	topK            = 40
	topP            = 0.95
	maxOutputTokens = 1024
)

// BuildPrompt assembles the single-turn prompt sent to the model.
// weatherText may be empty.
func BuildPrompt(userText, weatherText string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf(assistantIntro, userText))
	b.WriteString("\n\n")

	if weatherText != "" {
		b.WriteString(fmt.Sprintf(weatherInstructions, weatherText))
	} else {
		b.WriteString(noWeatherInstructions)
	}

	b.WriteString("\n\n")
	b.WriteString(closingInstructions)

	return b.String()
}
