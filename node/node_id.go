package node

// NodeId identifies a field's position within the message tree: the
// message that contains it, plus the raw proto tag of the field itself.
// Reserved nodes (NON_PROTO, START_OF_MESSAGE) use tag 0.
type NodeId struct {
	Parent MessageId
	Tag    uint32
}

// EncodedTag is the (NodeId, Subtype) identity used as a symbol in the
// state machine's alphabet. Each distinct EncodedTag occupies exactly
// one slot in the global tags list.
type EncodedTag struct {
	Node    NodeId
	Subtype Subtype
}
