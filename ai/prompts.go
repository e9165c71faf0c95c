package ai

import "fmt"

const summaryPrompt = `As a legal AI assistant, analyze this document and provide:
1. Executive Summary (2-3 sentences)
2. Key Legal Points (bullet points)
3. Important Dates/Deadlines
4. Potential Risks or Concerns
5. Action Items

Document content:
%s`

const contractPrompt = `Analyze this contract/legal document and provide:
1. Document Type
2. Key Parties Involved
3. Main Obligations & Rights
4. Important Clauses
5. Potential Red Flags
6. Recommendations

Contract text:
%s`

const chatbotPrompt = `You are a helpful legal assistant for a law firm platform. Provide accurate, helpful responses about legal services, processes, and general guidance. Do not provide specific legal advice.

Context: %s
User Question: %s

Provide a helpful, professional response that:
- Answers their question clearly
- Suggests relevant legal services if applicable
- Recommends consulting with a lawyer for specific advice
- Keeps responses concise and actionable`

func SummaryPrompt(documentText string) string {
	return fmt.Sprintf(summaryPrompt, Truncate(documentText))
}

func ContractPrompt(contractText string) string {
	return fmt.Sprintf(contractPrompt, Truncate(contractText))
}

func ChatbotPrompt(message, chatContext string) string {
	return fmt.Sprintf(chatbotPrompt, Truncate(chatContext), message)
}
