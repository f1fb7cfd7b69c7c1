// Package wire implements canonical protobuf wire-format primitives: tag
// packing, and the validator that decides whether a byte slice is a
// canonically-encoded proto message.
//
// "Canonical" means every varint uses the minimum number of bytes needed
// to represent its value. The encoder re-serializes tags and lengths from
// the values it decodes, so it must reject any record it could not
// reproduce byte-for-byte; canonical_varint.cc (see original_source) is
// the authority this package follows for the exact boundary conditions.
package wire

// Type is a proto wire type, the low 3 bits of a tag.
type Type uint8

const (
	Varint          Type = 0
	Fixed64         Type = 1
	LengthDelimited Type = 2
	StartGroup      Type = 3
	EndGroup        Type = 4
	Fixed32         Type = 5

	// Submessage is not a real wire type. It is used only when emitting a
	// state-machine tag for a LENGTH_DELIMITED_END_OF_SUBMESSAGE state: the
	// tag's wire type is rebased from LengthDelimited to Submessage so a
	// header reader can distinguish an end-of-submessage marker from a
	// plain length-delimited field sharing the same field number.
	Submessage Type = 6
)

// Tag packs a field number and wire type into a raw proto tag.
func Tag(fieldNumber uint32, t Type) uint32 {
	return fieldNumber<<3 | uint32(t)
}

// FieldNumber extracts the field number from a raw proto tag.
func FieldNumber(tag uint32) uint32 {
	return tag >> 3
}

// WireType extracts the wire type from a raw proto tag.
func WireType(tag uint32) Type {
	return Type(tag & 0x7)
}

// Rebase returns tag with its wire type replaced by SUBMESSAGE, matching
// the header's encoding of LENGTH_DELIMITED_END_OF_SUBMESSAGE state tags.
func Rebase(tag uint32) uint32 {
	return Tag(FieldNumber(tag), LengthDelimited) + uint32(Submessage-LengthDelimited)
}
