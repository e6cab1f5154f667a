package engine

// LLM prompt templates.

// summaryPrompt asks for a structured summary of a video transcript.
// Args: transcript text.
const summaryPrompt = `Please provide a summary of this YouTube video transcript.
Focus on the main points, key insights, and actionable takeaways.

Transcript:
%s

Please format your response as a clear, well-structured summary.`
