package selection

// PageSize is the number of catalog entries shown on one page. It matches the
// maximum number of options a select menu may carry on the original platform.
const PageSize = 25

// Page returns the window of catalog starting at offset together with the
// availability of the neighbouring pages. An offset of zero is the first page.
func Page(catalog []string, offset int) (slice []string, hasPrev, hasNext bool) {
	offset = clampOffset(offset, len(catalog))
	end := min(offset+PageSize, len(catalog))

	return catalog[offset:end], offset > 0, offset+PageSize < len(catalog)
}

// PagePrev moves offset one page back. On the first page it is a no-op.
func PagePrev(offset int) int {
	if offset <= PageSize {
		return 0
	}
	return offset - PageSize
}

// PageNext moves offset one page forward. On the last page it is a no-op, so
// stale or duplicated "next" presses can never walk past the catalog.
func PageNext(offset, catalogLen int) int {
	if offset+PageSize >= catalogLen {
		return offset
	}
	return offset + PageSize
}

// PageCount is ceil(catalogLen / PageSize), never less than one.
func PageCount(catalogLen int) int {
	n := (catalogLen + PageSize - 1) / PageSize
	return max(n, 1)
}

// PageNumber is the 1-indexed page that offset points at.
func PageNumber(offset int) int {
	return offset/PageSize + 1
}

func clampOffset(offset, catalogLen int) int {
	if offset < 0 || catalogLen == 0 {
		return 0
	}
	if offset >= catalogLen {
		offset = catalogLen - 1
	}
	return offset - offset%PageSize
}
