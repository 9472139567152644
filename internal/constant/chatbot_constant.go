package constant

// Roles used in chat history payloads returned to clients.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// Document formats accepted by the ingestion pipeline.
var SupportedDocumentExtensions = []string{".txt", ".pdf"}

// Hard cap for one uploaded document, below the server body limit so the
// rejection carries a domain error instead of a transport 413.
const MaxDocumentSizeBytes = 5 * 1024 * 1024

// Topic for the async document ingestion queue.
const DefaultIngestTopicName = "INGEST_CHATBOT_DOCUMENT"
