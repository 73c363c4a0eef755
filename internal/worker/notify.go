package worker

// ExportNotifyMessage is the WebSocket protocol forwarded to clients through
// Redis pub/sub. Field names must stay in sync with the frontend parser.
type ExportNotifyMessage struct {
	Status        string `json:"status"`
	DocumentID    uint   `json:"document_id"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}
