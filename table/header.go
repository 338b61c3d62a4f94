package table

import "github.com/libyal/go-libpff-table/internal/format"

// bthSubHeader is the common 0xb5 BTH sub-header every non-a5 table
// flavor shares (spec.md §4.4, §6).
type bthSubHeader struct {
	keySize   uint8
	valueSize uint8
	depth     uint8
	rootRef   HNID
}

// header is the parsed table header (spec.md §2 component E): the 12-byte
// signature block plus whatever type-specific body the dispatched type
// carries, and (for every type but 0xa5) the resolved 0xb5 BTH sub-header.
type header struct {
	tableType   uint8
	valueRef    HNID
	indexOffset uint16

	bth bthSubHeader // zero value for 0xa5, which has no BTH

	// valuesArrayRef addresses the values-array (component H); zero for
	// types that don't carry one (0x8c, 0x9c, 0xa5, 0xbc).
	valuesArrayRef HNID

	// numColumns is only meaningful for 0x7c/0xac.
	numColumns int

	// inlineColumnDefs holds the 0x7c column-definition array, which lives
	// immediately after the fixed 22-byte 7c body within block 0's own
	// slot rather than behind any HNID (spec.md §4.6).
	inlineColumnDefs []byte

	// columnDefDescriptor is the 0xac column-definition local-descriptors
	// identifier, resolved through the local-descriptors tree rather than
	// the heap (spec.md §4.6 "read via the local-descriptors tree").
	columnDefDescriptor uint32

	// end8/end16/end32 are the values-array row layout boundaries 0x7c and
	// 0xac both carry (spec.md §6).
	end8, end16, end32 uint16

	// rowEntrySize is the values-array end offset of the cell-existence
	// block: the total byte width of one values-array row, including its
	// trailing cell-existence bitmap (spec.md §4.7).
	rowEntrySize uint16
}

// parseHeader reads the leading table signature block from block 0's raw
// bytes and dispatches on type (spec.md §4.4). ti resolves the type-specific
// HNID that points at the shared 0xb5 BTH sub-header.
func parseHeader(block0 []byte, ti *tableIndex) (*header, error) {
	if len(block0) < format.TableHeaderSize {
		return nil, wrap(ErrKindInvalidFormat, "table header truncated", nil)
	}
	if block0[format.TableHeaderSignatureOff] != format.TableSignature {
		return nil, wrap(ErrKindInvalidFormat, "bad table signature", nil)
	}
	tableType := block0[format.TableHeaderTypeOff]
	if !format.IsKnownTableType(tableType) {
		return nil, wrap(ErrKindUnsupportedValue, "unknown table type", nil)
	}
	indexOffset, err := format.CheckedReadU16(block0, format.TableHeaderIndexOffsetOff)
	if err != nil {
		return nil, wrap(ErrKindOutOfBounds, "table header index_offset", err)
	}
	valueRefRaw, err := format.CheckedReadU32(block0, format.TableHeaderValueRefOff)
	if err != nil {
		return nil, wrap(ErrKindOutOfBounds, "table header value_ref", err)
	}

	h := &header{
		tableType:   tableType,
		valueRef:    HNID(valueRefRaw),
		indexOffset: indexOffset,
	}

	// bthRef is the type-specific HNID pointing at the shared 0xb5
	// sub-header; every type but 0xa5 resolves one. For 0x8c/0xbc there is
	// no extra type-specific body, so the header's own value_ref doubles
	// as bthRef.
	var bthRef HNID
	needsBTH := true

	body := block0[format.TableHeaderSize:]
	switch tableType {
	case format.TableTypePassThrough:
		// 0xa5 has no type-specific body and no BTH sub-header; its rows
		// are the block slots themselves (spec.md §4.9).
		return h, nil

	case format.TableTypeGUIDToValue:
		ref, err := parseHeader6c(h, body)
		if err != nil {
			return nil, err
		}
		bthRef = ref

	case format.TableTypeTCInline:
		ref, err := parseHeader7c(h, body)
		if err != nil {
			return nil, err
		}
		bthRef = ref

	case format.TableTypeGUIDToDescriptor:
		ref, err := parseHeader9c(h, body)
		if err != nil {
			return nil, err
		}
		bthRef = ref

	case format.TableTypeTCExternal:
		ref, err := parseHeaderAc(h, body)
		if err != nil {
			return nil, err
		}
		bthRef = ref

	case format.TableTypeDescriptorIndex, format.TableTypePropertyContext:
		// Neither 0x8c nor 0xbc carries an extra type-specific body: the
		// header's own value_ref is the HNID pointing at the 0xb5
		// sub-header.
		bthRef = h.valueRef

	default:
		return nil, wrap(ErrKindUnsupportedValue, "unhandled table type", nil)
	}

	if needsBTH {
		h.bth, err = resolveBTH(ti, bthRef)
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

// resolveBTH reads and validates the 0xb5 BTH sub-header at ref.
func resolveBTH(ti *tableIndex, ref HNID) (bthSubHeader, error) {
	raw, err := ti.resolve(ref)
	if err != nil {
		return bthSubHeader{}, wrap(ErrKindInvalidFormat, "resolve 0xb5 sub-header", err)
	}
	if len(raw) < format.BTHHeaderSize {
		return bthSubHeader{}, wrap(ErrKindInvalidFormat, "0xb5 sub-header truncated", nil)
	}
	if raw[format.BTHTypeOff] != format.BTHSignature {
		return bthSubHeader{}, wrap(ErrKindInvalidFormat, "bad 0xb5 signature", nil)
	}
	rootRef, err := format.CheckedReadU32(raw, format.BTHRootRefOff)
	if err != nil {
		return bthSubHeader{}, wrap(ErrKindOutOfBounds, "0xb5 root_ref", err)
	}
	return bthSubHeader{
		keySize:   raw[format.BTHKeySizeOff],
		valueSize: raw[format.BTHValueSizeOff],
		depth:     raw[format.BTHDepthOff],
		rootRef:   HNID(rootRef),
	}, nil
}

// parseHeader6c reads the 0x6c (GUID-to-value) type-specific header body
// and returns the HNID pointing at its 0xb5 sub-header.
func parseHeader6c(h *header, body []byte) (HNID, error) {
	if len(body) < format.Header6cSize {
		return 0, wrap(ErrKindInvalidFormat, "0x6c header truncated", nil)
	}
	b5Ref, err := format.CheckedReadU32(body, format.Header6cBTHRefOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x6c b5_ref", err)
	}
	vaRef, err := format.CheckedReadU32(body, format.Header6cVARefOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x6c va_ref", err)
	}
	h.valuesArrayRef = HNID(vaRef)
	return HNID(b5Ref), nil
}

// parseHeader7c reads the 0x7c (Table Context, inline column definitions)
// type-specific header body and returns the HNID pointing at its 0xb5
// sub-header.
func parseHeader7c(h *header, body []byte) (HNID, error) {
	if len(body) < format.Header7cSize {
		return 0, wrap(ErrKindInvalidFormat, "0x7c header truncated", nil)
	}
	nCols := body[format.Header7cNumColumnsOff]
	end32, err := format.CheckedReadU16(body, format.Header7cEnd32Off)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x7c end32", err)
	}
	end16, err := format.CheckedReadU16(body, format.Header7cEnd16Off)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x7c end16", err)
	}
	end8, err := format.CheckedReadU16(body, format.Header7cEnd8Off)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x7c end8", err)
	}
	endCEB, err := format.CheckedReadU16(body, format.Header7cEndCEBOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x7c end_ceb", err)
	}
	b5Ref, err := format.CheckedReadU32(body, format.Header7cBTHRefOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x7c b5_ref", err)
	}
	vaRef, err := format.CheckedReadU32(body, format.Header7cVARefOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x7c va_ref", err)
	}
	h.numColumns = int(nCols)
	h.end32, h.end16, h.end8 = end32, end16, end8
	h.rowEntrySize = endCEB
	h.valuesArrayRef = HNID(vaRef)

	defsStart := format.Header7cSize
	defsLen := h.numColumns * format.ColumnDef7cSize
	if defsStart+defsLen > len(body) {
		return 0, wrap(ErrKindInvalidFormat, "0x7c inline column definitions truncated", nil)
	}
	h.inlineColumnDefs = body[defsStart : defsStart+defsLen]
	return HNID(b5Ref), nil
}

// parseHeader9c reads the 0x9c (GUID-to-descriptor) type-specific header
// body and returns the HNID pointing at its 0xb5 sub-header.
func parseHeader9c(h *header, body []byte) (HNID, error) {
	if len(body) < format.Header9cSize {
		return 0, wrap(ErrKindInvalidFormat, "0x9c header truncated", nil)
	}
	b5Ref, err := format.CheckedReadU32(body, format.Header9cBTHRefOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0x9c b5_ref", err)
	}
	return HNID(b5Ref), nil
}

// parseHeaderAc reads the 0xac (Table Context, external column
// definitions) type-specific header body and returns the HNID pointing at
// its 0xb5 sub-header.
func parseHeaderAc(h *header, body []byte) (HNID, error) {
	if len(body) < format.HeaderAcSize {
		return 0, wrap(ErrKindInvalidFormat, "0xac header truncated", nil)
	}
	end32, err := format.CheckedReadU16(body, format.HeaderAcEnd32Off)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0xac end32", err)
	}
	end16, err := format.CheckedReadU16(body, format.HeaderAcEnd16Off)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0xac end16", err)
	}
	end8, err := format.CheckedReadU16(body, format.HeaderAcEnd8Off)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0xac end8", err)
	}
	endCEB, err := format.CheckedReadU16(body, format.HeaderAcEndCEBOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0xac end_ceb", err)
	}
	b5Ref, err := format.CheckedReadU32(body, format.HeaderAcBTHRefOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0xac b5_ref", err)
	}
	vaRef, err := format.CheckedReadU32(body, format.HeaderAcVARefOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0xac va_ref", err)
	}
	nCols, err := format.CheckedReadU16(body, format.HeaderAcNumColumnsOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0xac n_cols", err)
	}
	colDefRef, err := format.CheckedReadU32(body, format.HeaderAcColDefRefOff)
	if err != nil {
		return 0, wrap(ErrKindOutOfBounds, "0xac col_def_ref", err)
	}
	h.end32, h.end16, h.end8 = end32, end16, end8
	h.rowEntrySize = endCEB
	h.valuesArrayRef = HNID(vaRef)
	h.numColumns = int(nCols)
	h.columnDefDescriptor = colDefRef
	return HNID(b5Ref), nil
}
