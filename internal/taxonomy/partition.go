package taxonomy

// Partition splits entries at the first condition-typed entry. Entries
// before the boundary form the requirements group; entries from the
// boundary onward, boundary entry included, form the conditions group.
// If no entry has TypeCondition the requirements group is the whole
// sequence and the conditions group is empty.
//
// Both groups are subslices of entries: no copying, no reordering, and
// concatenating them reproduces the input exactly.
func Partition(entries []Entry) (requirements, conditions []Entry) {
	boundary := len(entries)
	for i, e := range entries {
		if e.Type == TypeCondition {
			boundary = i
			break
		}
	}
	return entries[:boundary], entries[boundary:]
}
