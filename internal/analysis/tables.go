package analysis

import "rommap/internal/rom"

// Table is a run of pointers stored in adjacent words.
type Table struct {
	Entries []rom.Pointer
}

// From returns the offset of the first slot.
func (t Table) From() int { return t.Entries[0].From }

// Len returns the number of slots.
func (t Table) Len() int { return len(t.Entries) }

// Size returns the byte length of the table.
func (t Table) Size() int { return len(t.Entries) * WordSize }

// Region returns the table as a single PointerTable region.
func (t Table) Region() rom.Region {
	return rom.Region{
		Offset: t.From(),
		Size:   t.Size(),
		Name:   regionName(rom.KindPointerTable, t.From()),
		Kind:   rom.KindPointerTable,
		Origin: rom.OriginDiscovered,
	}
}

// DetectTables partitions ptrs, which must be sorted by From, into maximal
// runs whose slots are exactly one word apart. Runs shorter than
// MinTableEntries are dropped as coincidental.
func DetectTables(ptrs []rom.Pointer) []Table {
	var tables []Table
	start := 0
	for i := 1; i <= len(ptrs); i++ {
		if i < len(ptrs) && ptrs[i].From-ptrs[i-1].From == WordSize {
			continue
		}
		if i-start >= MinTableEntries {
			tables = append(tables, Table{Entries: ptrs[start:i:i]})
		}
		start = i
	}
	return tables
}
