package bulk

// Operation names a bulk operation kind. The kind determines the batch
// ceiling: destructive and expensive operations get lower limits.
type Operation string

const (
	OpUpdate         Operation = "update"
	OpDelete         Operation = "delete"
	OpCreate         Operation = "create"
	OpAddComment     Operation = "add-comment"
	OpSetParent      Operation = "set-parent"
	OpRemoveParent   Operation = "remove-parent"
	OpCreateRelation Operation = "create-relation"
	OpDeleteRelation Operation = "delete-relation"
)

// Limit returns the maximum batch size for the operation. Unknown
// operations get the conservative ceiling.
func (o Operation) Limit() int {
	switch o {
	case OpUpdate, OpAddComment, OpSetParent, OpRemoveParent:
		return 50
	case OpDelete, OpCreate, OpCreateRelation, OpDeleteRelation:
		return 30
	default:
		return 30
	}
}
