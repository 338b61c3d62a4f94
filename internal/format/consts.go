// Package format houses low-level decoders for the libpff heap-on-node /
// BTree-on-heap / table wire layout. The goal is to keep parsing focused,
// allocation-free where possible, and independent from the public API so
// higher-level packages can orchestrate the data in a more ergonomic form.
package format

const (
	// TableSignature is the fixed byte marking the start of a table header
	// (spec.md §3, §6).
	TableSignature = 0xec

	// BTHSignature marks a 0xb5 BTH sub-header.
	BTHSignature = 0xb5
)

// Table type tags (spec.md §4.4).
const (
	TableTypeGUIDToValue      = 0x6c
	TableTypeTCInline         = 0x7c
	TableTypeDescriptorIndex  = 0x8c
	TableTypeGUIDToDescriptor = 0x9c
	TableTypePassThrough      = 0xa5
	TableTypeTCExternal       = 0xac
	TableTypePropertyContext  = 0xbc
)

// IsKnownTableType reports whether t is one of the seven dispatchable types.
func IsKnownTableType(t uint8) bool {
	switch t {
	case TableTypeGUIDToValue, TableTypeTCInline, TableTypeDescriptorIndex,
		TableTypeGUIDToDescriptor, TableTypePassThrough, TableTypeTCExternal,
		TableTypePropertyContext:
		return true
	}
	return false
}

// Byte sizes and field offsets of the fixed wire structures (spec.md §6).
const (
	// TableHeaderSize is the 12-byte signature block leading block 0.
	TableHeaderSize           = 12
	TableHeaderIndexOffsetOff = 0
	TableHeaderSignatureOff   = 2
	TableHeaderTypeOff        = 3
	TableHeaderValueRefOff    = 4

	// BlockIndexHeaderSize is the 4-byte {count, unused_count} pair leading
	// the per-block allocation map (spec.md §4.3).
	BlockIndexHeaderSize   = 4
	BlockIndexCountOff     = 0
	BlockIndexUnusedOff    = 2
	BlockIndexOffsetsStart = 4

	// BTHHeaderSize is the 8-byte 0xb5 sub-header.
	BTHHeaderSize   = 8
	BTHTypeOff      = 0
	BTHKeySizeOff   = 1
	BTHValueSizeOff = 2
	BTHDepthOff     = 3
	BTHRootRefOff   = 4

	// Header6cSize is the 8-byte body following the signature block for a
	// 0x6c (GUID-to-value) table.
	Header6cSize      = 8
	Header6cBTHRefOff = 0
	Header6cVARefOff  = 4

	// Header7cSize is the 22-byte body following the signature block for a
	// 0x7c (inline-column TC) table.
	Header7cSize          = 22
	Header7cTypeOff       = 0
	Header7cNumColumnsOff = 1
	Header7cEnd32Off      = 2
	Header7cEnd16Off      = 4
	Header7cEnd8Off       = 6
	Header7cEndCEBOff     = 8
	Header7cBTHRefOff     = 10
	Header7cVARefOff      = 14
	Header7cUnknownOff    = 18

	// Header9cSize is the 4-byte body for a 0x9c (GUID-to-descriptor) table.
	Header9cSize      = 4
	Header9cBTHRefOff = 0

	// HeaderAcSize is the 40-byte body following the signature block for a
	// 0xac (external-column TC) table.
	HeaderAcSize          = 40
	HeaderAcTypeOff       = 0
	HeaderAcPaddingOff    = 1
	HeaderAcEnd32Off      = 2
	HeaderAcEnd16Off      = 4
	HeaderAcEnd8Off       = 6
	HeaderAcEndCEBOff     = 8
	HeaderAcBTHRefOff     = 10
	HeaderAcVARefOff      = 14
	HeaderAcPadding2Off   = 18
	HeaderAcNumColumnsOff = 22
	HeaderAcColDefRefOff  = 24
	HeaderAcReservedOff   = 28
	HeaderAcReservedSize  = 12

	// RecordEntrySizeBC is the 8-byte record entry shape used by Property
	// Context (0xbc) BTH leaves.
	RecordEntrySizeBC     = 8
	RecordEntryBCTypeOff  = 0
	RecordEntryBCVTypeOff = 2
	RecordEntryBCValueOff = 4

	// RecordEntrySize8C is the 12-byte record entry shape for descriptor
	// identifier indices (0x8c).
	RecordEntrySize8C      = 12
	RecordEntry8CIdentOff  = 0
	RecordEntry8CDescIDOff = 8

	// RecordEntrySize9C is the 20-byte record entry shape for GUID-to-
	// descriptor indices (0x9c).
	RecordEntrySize9C      = 20
	RecordEntry9CGUIDOff   = 0
	RecordEntry9CDescIDOff = 16

	// RecordEntrySize6C is the 18-byte record entry shape for GUID-to-value
	// maps (0x6c).
	RecordEntrySize6C     = 18
	RecordEntry6CGUIDOff  = 0
	RecordEntry6CVANumOff = 16

	// ColumnDef7cSize is the 8-byte inline column definition shape.
	ColumnDef7cSize      = 8
	ColumnDef7cVTypeOff  = 0
	ColumnDef7cETypeOff  = 2
	ColumnDef7cVAOffOff  = 4
	ColumnDef7cVASizeOff = 6
	ColumnDef7cVANumOff  = 7

	// ColumnDefAcSize is the 16-byte external column definition shape.
	ColumnDefAcSize         = 16
	ColumnDefAcVTypeOff     = 0
	ColumnDefAcETypeOff     = 2
	ColumnDefAcVAOffOff     = 4
	ColumnDefAcVASizeOff    = 6
	ColumnDefAcVANumOff     = 8
	ColumnDefAcPaddingOff   = 10
	ColumnDefAcSideTableOff = 12

	// MultiValueHeaderCountSize is the 4-byte item count leading a
	// variable-width multi-value's offset table.
	MultiValueHeaderCountSize = 4
	MultiValueOffsetSize      = 4
)

// MAPI value-type tags relevant to typed decoding (spec.md §4.8, §4.10).
// Names follow [MS-OXCDATA] PidTagPropertyType conventions.
const (
	ValueTypeInt16         uint16 = 0x0002
	ValueTypeInt32         uint16 = 0x0003
	ValueTypeFloat32       uint16 = 0x0004
	ValueTypeFloat64       uint16 = 0x0005
	ValueTypeCurrency      uint16 = 0x0006
	ValueTypeAppTime       uint16 = 0x0007
	ValueTypeError         uint16 = 0x000a
	ValueTypeBoolean       uint16 = 0x000b
	ValueTypeObject        uint16 = 0x000d
	ValueTypeInt64         uint16 = 0x0014
	ValueTypeStringASCII   uint16 = 0x001e
	ValueTypeStringUnicode uint16 = 0x001f
	ValueTypeFiletime      uint16 = 0x0040
	ValueTypeGUID          uint16 = 0x0048
	ValueTypeServerID      uint16 = 0x00fb
	ValueTypeRestriction   uint16 = 0x00fd
	ValueTypeRuleAction    uint16 = 0x00fe
	ValueTypeBinary        uint16 = 0x0102

	// ValueTypeMultiValueFlag, OR'd with a fixed-width tag, marks a
	// multi-value column.
	ValueTypeMultiValueFlag uint16 = 0x1000

	ValueTypeMultiInt16         uint16 = ValueTypeInt16 | ValueTypeMultiValueFlag
	ValueTypeMultiInt32         uint16 = ValueTypeInt32 | ValueTypeMultiValueFlag
	ValueTypeMultiFloat32       uint16 = ValueTypeFloat32 | ValueTypeMultiValueFlag
	ValueTypeMultiFloat64       uint16 = ValueTypeFloat64 | ValueTypeMultiValueFlag
	ValueTypeMultiCurrency      uint16 = ValueTypeCurrency | ValueTypeMultiValueFlag
	ValueTypeMultiAppTime       uint16 = ValueTypeAppTime | ValueTypeMultiValueFlag
	ValueTypeMultiInt64         uint16 = ValueTypeInt64 | ValueTypeMultiValueFlag
	ValueTypeMultiStringASCII   uint16 = ValueTypeStringASCII | ValueTypeMultiValueFlag
	ValueTypeMultiStringUnicode uint16 = ValueTypeStringUnicode | ValueTypeMultiValueFlag
	ValueTypeMultiFiletime      uint16 = ValueTypeFiletime | ValueTypeMultiValueFlag
	ValueTypeMultiGUID          uint16 = ValueTypeGUID | ValueTypeMultiValueFlag
	ValueTypeMultiBinary        uint16 = ValueTypeBinary | ValueTypeMultiValueFlag
)

// IsMultiValue reports whether a value type tag carries the multi-value flag.
func IsMultiValue(valueType uint16) bool {
	return valueType&ValueTypeMultiValueFlag != 0
}

// Entry-type range for named properties (spec.md §4.6).
const (
	NamedPropertyEntryTypeMin uint32 = 0x8000
	NamedPropertyEntryTypeMax uint32 = 0xfffe
)

// HNIDNodeTypeMask isolates the low 5 bits of an HNID, which carry the
// node-type tag (spec.md §3, §4.1).
const HNIDNodeTypeMask uint32 = 0x1f

// Local-descriptor node wire layout (spec.md §6).
const (
	// LocalDescriptorNodeSignature is the fixed leading byte of a
	// local-descriptor node.
	LocalDescriptorNodeSignature = 0x02

	// LocalDescriptorNodeLevelLeaf marks a leaf node (entries map directly
	// to data/local-descriptors identifiers); any nonzero level is a
	// branch node (entries point at child nodes).
	LocalDescriptorNodeLevelLeaf = 0x00

	// Prefix layout: {signature, level, number_of_entries} is common to
	// both file types; 64-bit file types carry an extra 4-byte padding
	// field before the entries array.
	LocalDescriptorNodePrefixSize32 = 4
	LocalDescriptorNodePrefixSize64 = 8
	LocalDescriptorNodeSignatureOff = 0
	LocalDescriptorNodeLevelOff     = 1
	LocalDescriptorNodeNumEntOff    = 2

	// Leaf entry shapes: {identifier, data_identifier,
	// local_descriptors_identifier}.
	LocalDescriptorLeafEntrySize32 = 12
	LocalDescriptorLeafEntrySize64 = 24

	// Branch entry shapes: {identifier, sub_node_identifier}.
	LocalDescriptorBranchEntrySize32 = 8
	LocalDescriptorBranchEntrySize64 = 16
)
