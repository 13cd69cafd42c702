package lead

// Merge folds one extraction pass into the accumulated snapshot.
// A non-empty extracted value replaces the stored one; nil and empty values
// leave it untouched, so a pass that misses a field never erases it.
// InterestConfirmed only moves from false to true.
func Merge(current Snapshot, update Partial) Snapshot {
	merged := current
	merged.Name = pick(update.Name, current.Name)
	merged.Email = pick(update.Email, current.Email)
	merged.Company = pick(update.Company, current.Company)
	merged.Phone = pick(update.Phone, current.Phone)
	merged.Need = pick(update.Need, current.Need)
	merged.Deadline = pick(update.Deadline, current.Deadline)
	if update.InterestConfirmed != nil && *update.InterestConfirmed {
		merged.InterestConfirmed = true
	}
	return merged
}

// Complete reports whether the snapshot carries the fields required to book a
// meeting.
func (s Snapshot) Complete() bool {
	return s.Name != "" && s.Email != ""
}

func pick(update *string, current string) string {
	if update != nil && *update != "" {
		return *update
	}
	return current
}
