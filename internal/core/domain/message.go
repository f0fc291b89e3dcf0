package domain

// MessageTypeWorkspaceUpdated is the type tag of the message delivered to consumers.
const MessageTypeWorkspaceUpdated = "workspaceUpdated"

// WorkspaceUpdate is the message delivered to a consumer after each debounce
// cycle or re-scan. FilePaths are relative to the project root, use forward
// slashes and keep a trailing slash on directories.
type WorkspaceUpdate struct {
	Type      string   `json:"type"`
	FilePaths []string `json:"filePaths"`
}

// NewWorkspaceUpdate creates a workspaceUpdated message.
// A nil slice is replaced by an empty one so the wire form is always an array.
func NewWorkspaceUpdate(paths []string) WorkspaceUpdate {
	if paths == nil {
		paths = []string{}
	}
	return WorkspaceUpdate{
		Type:      MessageTypeWorkspaceUpdated,
		FilePaths: paths,
	}
}
